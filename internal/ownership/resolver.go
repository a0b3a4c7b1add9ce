// Package ownership maps accounts to the user whose profile should absorb
// their activity. Shared accounts are surfaced as ambiguous rather than
// silently attributed to one owner.
package ownership

import (
	"context"
	"fmt"

	"github.com/ledgersage/ledgersage/internal/service"
)

// Status classifies a resolution attempt.
type Status string

// Resolution statuses.
const (
	StatusFound     Status = "found"
	StatusAmbiguous Status = "ambiguous"
	StatusNone      Status = "none"
)

// Resolution is the outcome of resolving an account to its owner. UserID is
// set only when Status is StatusFound; Owners always lists every linked user.
type Resolution struct {
	UserID string
	Status Status
	Owners []string
}

// Resolver answers account ownership questions against storage.
type Resolver struct {
	storage service.Storage
}

// NewResolver creates an ownership resolver.
func NewResolver(storage service.Storage) *Resolver {
	return &Resolver{storage: storage}
}

// Resolve determines the single owner of an account, if there is one.
func (r *Resolver) Resolve(ctx context.Context, accountID string) (Resolution, error) {
	owners, err := r.storage.GetAccountOwners(ctx, accountID)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to load account owners: %w", err)
	}

	switch len(owners) {
	case 0:
		return Resolution{Status: StatusNone}, nil
	case 1:
		return Resolution{Status: StatusFound, UserID: owners[0], Owners: owners}, nil
	default:
		return Resolution{Status: StatusAmbiguous, Owners: owners}, nil
	}
}
