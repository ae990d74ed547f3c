package ownership

import (
	"context"

	"github.com/google/uuid"
)

// Resolver reports the owning user of a stored row.
type Resolver interface {
	OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// AssertOwned verifies that the row identified by id belongs to ownerID.
// A row owned by someone else yields notFound, never a hint that the row
// exists. Resolver lookup errors (including its own not-found sentinel)
// pass through unchanged.
func AssertOwned(ctx context.Context, r Resolver, id, ownerID uuid.UUID, notFound error) error {
	owner, err := r.OwnerOf(ctx, id)
	if err != nil {
		return err
	}
	if owner != ownerID {
		return notFound
	}
	return nil
}
