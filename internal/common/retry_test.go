package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ledgersage/ledgersage/internal/service"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithRetryEventualSuccess(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, fastRetry(5))
	if err != nil {
		t.Fatalf("WithRetry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("operation ran %d times, want 3", calls)
	}
}

func TestWithRetryStopsOnNonRetryable(t *testing.T) {
	cause := errors.New("bad request")
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return &RetryableError{Err: cause, Retryable: false}
	}, fastRetry(5))
	if !errors.Is(err, cause) {
		t.Fatalf("WithRetry() error = %v, want %v", err, cause)
	}
	if calls != 1 {
		t.Errorf("a non-retryable error ran the operation %d times, want 1", calls)
	}
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return errors.New("still broken")
	}, fastRetry(3))
	if !errors.Is(err, ErrMaxRetries) {
		t.Fatalf("WithRetry() error = %v, want ErrMaxRetries", err)
	}
	if calls != 3 {
		t.Errorf("operation ran %d times, want 3", calls)
	}
}
