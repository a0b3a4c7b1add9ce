package ownership

import (
	"context"
	"errors"
	"testing"

	"github.com/ledgersage/ledgersage/internal/testutil"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		owners     []string
		wantStatus Status
		wantUserID string
	}{
		{"no owners", nil, StatusNone, ""},
		{"single owner", []string{"user-1"}, StatusFound, "user-1"},
		{"shared account", []string{"user-1", "user-2"}, StatusAmbiguous, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &testutil.MockStorage{
				GetAccountOwnersFunc: func(context.Context, string) ([]string, error) {
					return tt.owners, nil
				},
			}

			resolution, err := NewResolver(store).Resolve(context.Background(), "acct-1")
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if resolution.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", resolution.Status, tt.wantStatus)
			}
			if resolution.UserID != tt.wantUserID {
				t.Errorf("UserID = %q, want %q", resolution.UserID, tt.wantUserID)
			}
		})
	}
}

func TestResolvePropagatesStorageErrors(t *testing.T) {
	wantErr := errors.New("connection reset")
	store := &testutil.MockStorage{
		GetAccountOwnersFunc: func(context.Context, string) ([]string, error) {
			return nil, wantErr
		},
	}

	_, err := NewResolver(store).Resolve(context.Background(), "acct-1")
	if !errors.Is(err, wantErr) {
		t.Fatalf("Resolve() error = %v, want %v", err, wantErr)
	}
}
