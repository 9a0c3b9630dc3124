package directory

import (
	"context"
	"errors"

	"bestbosses/internal/boss"
	"bestbosses/internal/nomination"
	"bestbosses/internal/profile"
	id "bestbosses/pkg/domain"
	dErrors "bestbosses/pkg/domain-errors"
	"bestbosses/pkg/platform/sentinel"
	"bestbosses/pkg/slug"
)

// Resolver turns a public slug into a boss profile view. The boss table is
// authoritative; when no row exists the resolver falls back to the
// nomination id embedded in the slug, so profile links shared right after
// an approval work even if materialization lagged or was repaired by hand.
type Resolver struct {
	bosses      boss.Store
	nominations nomination.Store
	profiles    profile.Store
}

func NewResolver(bosses boss.Store, nominations nomination.Store, profiles profile.Store) *Resolver {
	return &Resolver{bosses: bosses, nominations: nominations, profiles: profiles}
}

// Resolve returns the profile view for a slug. Unknown slugs, unparseable
// slugs, and nominations that are not approved all come back as not-found;
// a pending or rejected nomination must be indistinguishable from a
// nonexistent one.
func (r *Resolver) Resolve(ctx context.Context, requestedSlug string) (*boss.View, error) {
	b, err := r.bosses.BySlug(ctx, requestedSlug)
	switch {
	case err == nil:
		return &boss.View{Boss: *b, Nominator: r.attribution(ctx, b.NominatorID)}, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return r.resolveFromNomination(ctx, requestedSlug)
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load boss by slug")
	}
}

func (r *Resolver) resolveFromNomination(ctx context.Context, requestedSlug string) (*boss.View, error) {
	nominationID, err := slug.NominationSuffix(requestedSlug)
	if err != nil {
		return nil, notFound(requestedSlug)
	}

	n, err := r.nominations.ByID(ctx, nominationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, notFound(requestedSlug)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load nomination for slug")
	}
	if n.Status != nomination.StatusApproved {
		return nil, notFound(requestedSlug)
	}

	return boss.SynthesizeFromNomination(n, requestedSlug, r.attribution(ctx, n.NominatorID)), nil
}

// attribution loads the nominator's public attribution, or nil when no
// profile row exists. The page renders fine without it.
func (r *Resolver) attribution(ctx context.Context, nominatorID id.UserID) *profile.Attribution {
	p, err := r.profiles.ByUserID(ctx, nominatorID)
	if err != nil {
		return nil
	}
	a := p.Attribution()
	return &a
}

func notFound(requestedSlug string) error {
	return dErrors.Newf(dErrors.CodeNotFound, "no boss profile at %q", requestedSlug)
}
