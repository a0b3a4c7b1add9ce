package llm

import (
	"errors"
	"testing"

	"github.com/ledgersage/ledgersage/internal/common"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		cfg     Config
	}{
		{name: "anthropic", cfg: Config{Provider: "anthropic", APIKey: "key"}},
		{name: "openai", cfg: Config{Provider: "OpenAI", APIKey: "key"}},
		{name: "anthropic without key", cfg: Config{Provider: "anthropic"}, wantErr: common.ErrMissingConfig},
		{name: "openai without key", cfg: Config{Provider: "openai"}, wantErr: common.ErrMissingConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewClient() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			if client == nil {
				t.Fatal("NewClient() returned nil client")
			}
		})
	}
}

func TestNewClientUnknownProvider(t *testing.T) {
	if _, err := NewClient(Config{Provider: "bedrock", APIKey: "key"}); err == nil {
		t.Fatal("NewClient() accepted an unknown provider")
	}
}
