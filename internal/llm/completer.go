package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledgersage/ledgersage/internal/common"
	"github.com/ledgersage/ledgersage/internal/service"
)

// Completer wraps a raw provider client with rate limiting and retries. It
// satisfies Client itself, so the pipeline engines can depend on the
// interface without caring which layer they were handed.
type Completer struct {
	client      Client
	rateLimiter *rateLimiter
	retryOpts   service.RetryOptions
}

// NewCompleter builds the production completion stack for the given config.
func NewCompleter(cfg Config) (*Completer, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Completer{
		client:      client,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		retryOpts:   retryOpts,
	}, nil
}

// Complete performs a rate-limited, retried completion.
func (c *Completer) Complete(ctx context.Context, req Request) (string, error) {
	if err := c.rateLimiter.wait(ctx); err != nil {
		return "", err
	}

	var response string
	err := common.WithRetry(ctx, func() error {
		var completeErr error
		response, completeErr = c.client.Complete(ctx, req)
		return completeErr
	}, c.retryOpts)
	if err != nil {
		slog.Debug("completion failed after retries", "error", err)
		return "", err
	}

	return response, nil
}

// Close releases the rate limiter's background goroutine.
func (c *Completer) Close() {
	c.rateLimiter.Close()
}
