package nomination

import (
	"context"
	"time"

	id "bestbosses/pkg/domain"
)

// Store persists nomination records.
//
// UpdateStatus is the conditional transition at the center of the lifecycle:
// it applies "set status where current status is pending" atomically, so two
// concurrent moderator actions on the same nomination cannot both win. The
// loser observes sentinel.ErrInvalidState. Unknown ids return
// sentinel.ErrNotFound.
type Store interface {
	Create(ctx context.Context, n *Nomination) error
	ByID(ctx context.Context, nominationID id.NominationID) (*Nomination, error)
	ByNominator(ctx context.Context, nominatorID id.UserID) ([]*Nomination, error)

	// List returns all nominations newest-first, for the moderation queue.
	List(ctx context.Context) ([]*Nomination, error)

	UpdateStatus(ctx context.Context, nominationID id.NominationID, next Status, now time.Time) (*Nomination, error)
}
