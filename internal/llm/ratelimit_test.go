package llm

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterExhaustsBucket(t *testing.T) {
	rl := newRateLimiter(3)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		if !rl.tryAcquire() {
			t.Fatalf("acquire %d failed with tokens remaining", i)
		}
	}
	if rl.tryAcquire() {
		t.Error("acquired a token from an empty bucket")
	}
}

func TestRateLimiterWaitHonorsContext(t *testing.T) {
	rl := newRateLimiter(1)
	defer rl.Close()

	if err := rl.wait(context.Background()); err != nil {
		t.Fatalf("wait() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := rl.wait(ctx); err == nil {
		t.Error("wait() returned nil on an empty bucket with an expired context")
	}
}
