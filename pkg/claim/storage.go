package claim

import (
	"context"
	"errors"
)

// Storage-layer sentinel errors.
var (
	// ErrInvalidClaim is returned by stores when a record fails write-time
	// constraints (required fields, non-negative ctypeId).
	ErrInvalidClaim = errors.New("claim: record fails storage constraints")
)

// Store is the record store the service persists claims through.
//
// Implementations must enforce Claim.Validate at write time and assign a
// fresh unique ID on Insert. Reads filter by exact field match.
type Store interface {
	// Insert persists a new claim and returns it with its assigned ID.
	Insert(ctx context.Context, c Claim) (Claim, error)

	// FindBySubject returns all claims with To == to, empty slice if none.
	FindBySubject(ctx context.Context, to string) ([]Claim, error)

	// FindByAttester returns all claims with Attester == attester.
	FindByAttester(ctx context.Context, attester string) ([]Claim, error)

	// FindByID returns the claim with the given ID, or nil if absent.
	FindByID(ctx context.Context, id string) (*Claim, error)

	// DeleteByID removes the claim and reports whether a record existed.
	DeleteByID(ctx context.Context, id string) (bool, error)
}
