package profile

import (
	"context"
	"time"

	id "bestbosses/pkg/domain"
)

// Store persists profile records. Implementations return
// sentinel.ErrNotFound for unknown users and sentinel.ErrConflict when a
// profile already exists for the user.
type Store interface {
	Create(ctx context.Context, p *Profile) error
	ByUserID(ctx context.Context, userID id.UserID) (*Profile, error)

	// SetHasApprovedNomination flips the access flag. Called inside the
	// approval transaction so the flag and the nomination status commit
	// together.
	SetHasApprovedNomination(ctx context.Context, userID id.UserID, value bool, now time.Time) error
}
