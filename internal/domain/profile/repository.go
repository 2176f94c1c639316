package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("profile not found")

// Repository stores profile aggregates keyed by owner. Every mutating call is
// scoped by the owner's identity; there is no way to address another user's
// profile for writing. Sub-collection changes are applied atomically by the
// store, so concurrent prepends and removals do not overwrite each other.
type Repository interface {
	// Upsert creates the caller's profile or merges f into the existing one.
	Upsert(ctx context.Context, userID uuid.UUID, f Fields) (Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	List(ctx context.Context) ([]Profile, error)
	// DeleteByUserID is idempotent.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error

	PrependExperience(ctx context.Context, userID uuid.UUID, e Experience) (Profile, error)
	RemoveExperience(ctx context.Context, userID uuid.UUID, entryID uuid.UUID) (Profile, error)
	PrependEducation(ctx context.Context, userID uuid.UUID, e Education) (Profile, error)
	RemoveEducation(ctx context.Context, userID uuid.UUID, entryID uuid.UUID) (Profile, error)
}
