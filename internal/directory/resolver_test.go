package directory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bestbosses/internal/boss"
	"bestbosses/internal/nomination"
	"bestbosses/internal/profile"
	id "bestbosses/pkg/domain"
	dErrors "bestbosses/pkg/domain-errors"
	"bestbosses/pkg/slug"
)

type resolverFixture struct {
	nominations *nomination.InMemoryStore
	profiles    *profile.InMemoryStore
	bosses      *boss.InMemoryStore
	resolver    *Resolver
}

func newResolverFixture() *resolverFixture {
	f := &resolverFixture{
		nominations: nomination.NewInMemoryStore(),
		profiles:    profile.NewInMemoryStore(),
		bosses:      boss.NewInMemoryStore(),
	}
	f.resolver = NewResolver(f.bosses, f.nominations, f.profiles)
	return f
}

func (f *resolverFixture) seedNomination(t *testing.T, status nomination.Status) *nomination.Nomination {
	t.Helper()
	now := time.Now().UTC()
	n := &nomination.Nomination{
		ID: id.NewNominationID(),
		Fields: nomination.Fields{
			BossFirstName: "Alex",
			BossLastName:  "Morgan",
			Company:       "Acme Corp",
			Email:         "alex@acme.example",
			Review:        "An excellent leader in every respect.",
		},
		NominatorID: id.NewUserID(),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, f.nominations.Create(context.Background(), n))
	return n
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("materialized boss resolves with attribution", func(t *testing.T) {
		f := newResolverFixture()
		n := f.seedNomination(t, nomination.StatusApproved)
		b := boss.FromNomination(n, time.Now().UTC())
		require.NoError(t, f.bosses.Create(ctx, b))
		require.NoError(t, f.profiles.Create(ctx, &profile.Profile{
			UserID:    n.NominatorID,
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
		}))

		view, err := f.resolver.Resolve(ctx, b.Slug)
		require.NoError(t, err)
		assert.Equal(t, b.ID, view.Boss.ID)
		require.NotNil(t, view.Nominator)
		assert.Equal(t, "Jane", view.Nominator.FirstName)
	})

	t.Run("missing boss row falls back to the approved nomination", func(t *testing.T) {
		f := newResolverFixture()
		n := f.seedNomination(t, nomination.StatusApproved)
		requested := slug.Make(n.Fields.BossFirstName, n.Fields.BossLastName, n.ID)

		view, err := f.resolver.Resolve(ctx, requested)
		require.NoError(t, err)
		assert.Equal(t, n.ID, view.Boss.NominationID)
		assert.Equal(t, requested, view.Boss.Slug)
		assert.Equal(t, "Alex", view.Boss.FirstName)
	})

	t.Run("fallback works for hyphenated names", func(t *testing.T) {
		f := newResolverFixture()
		n := f.seedNomination(t, nomination.StatusApproved)
		n.Fields.BossLastName = "Smith-Jones"
		requested := slug.Make(n.Fields.BossFirstName, "Smith-Jones", n.ID)

		view, err := f.resolver.Resolve(ctx, requested)
		require.NoError(t, err)
		assert.Equal(t, n.ID, view.Boss.NominationID)
	})

	t.Run("pending nomination is indistinguishable from missing", func(t *testing.T) {
		f := newResolverFixture()
		n := f.seedNomination(t, nomination.StatusPending)
		requested := slug.Make(n.Fields.BossFirstName, n.Fields.BossLastName, n.ID)

		_, err := f.resolver.Resolve(ctx, requested)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("rejected nomination is not found", func(t *testing.T) {
		f := newResolverFixture()
		n := f.seedNomination(t, nomination.StatusRejected)
		requested := slug.Make(n.Fields.BossFirstName, n.Fields.BossLastName, n.ID)

		_, err := f.resolver.Resolve(ctx, requested)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("garbage slug is not found", func(t *testing.T) {
		f := newResolverFixture()
		_, err := f.resolver.Resolve(ctx, "whatever")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("well-formed slug with unknown nomination is not found", func(t *testing.T) {
		f := newResolverFixture()
		_, err := f.resolver.Resolve(ctx, slug.Make("Jane", "Doe", id.NewNominationID()))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestListSearch(t *testing.T) {
	ctx := context.Background()
	bosses := boss.NewInMemoryStore()
	svc := NewService(bosses, nil)

	now := time.Now().UTC()
	seed := func(first, last, company, location, industry, function string) {
		n := &nomination.Nomination{
			ID: id.NewNominationID(),
			Fields: nomination.Fields{
				BossFirstName: first,
				BossLastName:  last,
				Company:       company,
				Location:      location,
				Industry:      industry,
				Function:      function,
				Email:         "x@example.com",
				Review:        "A fine leader.",
			},
			NominatorID: id.NewUserID(),
			Status:      nomination.StatusApproved,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		require.NoError(t, bosses.Create(ctx, boss.FromNomination(n, now)))
	}

	seed("Alex", "Morgan", "Acme Corp", "Denver, CO", "Technology", "Engineering")
	seed("Priya", "Patel", "HealthFirst", "Chicago, IL", "Healthcare", "Operations")

	t.Run("empty search returns everything", func(t *testing.T) {
		all, err := svc.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("matches company case-insensitively", func(t *testing.T) {
		got, err := svc.List(ctx, "acme")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Alex", got[0].FirstName)
	})

	t.Run("matches location substring", func(t *testing.T) {
		got, err := svc.List(ctx, "chicago")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Priya", got[0].FirstName)
	})

	t.Run("no match returns empty, not an error", func(t *testing.T) {
		got, err := svc.List(ctx, "zzzz")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
