package boss

import (
	"context"

	id "bestbosses/pkg/domain"
)

// Store persists materialized boss records. BySlug returns
// sentinel.ErrNotFound for unknown slugs; Create returns
// sentinel.ErrConflict when the slug (or nomination) already has a row.
type Store interface {
	Create(ctx context.Context, b *Boss) error
	BySlug(ctx context.Context, slug string) (*Boss, error)
	ByNominationID(ctx context.Context, nominationID id.NominationID) (*Boss, error)

	// List returns directory entries newest-first.
	List(ctx context.Context) ([]*Boss, error)
}
