// Package llm provides access to the reasoning capability behind the
// insight pipeline. All providers expose a single text-completion contract;
// callers treat every response as untrusted text and validate structured
// output themselves.
package llm

import (
	"context"
	"time"
)

// Request is one completion request against the reasoning capability.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Client defines the interface for reasoning-capability providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Config holds configuration for constructing a client.
type Config struct {
	Provider   string
	APIKey     string
	Model      string
	MaxRetries int
	RetryDelay time.Duration
	RateLimit  int // requests per minute
}
