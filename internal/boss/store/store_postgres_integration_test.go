//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bestbosses/internal/boss"
	"bestbosses/internal/boss/store"
	id "bestbosses/pkg/domain"
	"bestbosses/pkg/platform/sentinel"
	"bestbosses/pkg/testutil/containers"
)

type PostgresBossSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresBossSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresBossSuite))
}

func (s *PostgresBossSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresBossSuite) SetupTest() {
	s.Require().NoError(s.postgres.Truncate(context.Background()))
}

func (s *PostgresBossSuite) newBoss(slug string, now time.Time) *boss.Boss {
	return &boss.Boss{
		ID:              id.NewBossID(),
		FirstName:       "Alex",
		LastName:        "Morgan",
		Company:         "Acme Corp",
		Location:        "Berlin",
		Industry:        "Technology",
		Function:        "Engineering",
		Email:           "alex.morgan@example.com",
		LinkedInProfile: "https://linkedin.com/in/alexmorgan",
		Review:          "A supportive leader who always made time for the team.",
		Slug:            slug,
		NominationID:    id.NewNominationID(),
		NominatorID:     id.NewUserID(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (s *PostgresBossSuite) TestCreateAndLookup() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	b := s.newBoss("alex-morgan-suffix", now)
	s.Require().NoError(s.store.Create(ctx, b))

	s.Run("by slug", func() {
		got, err := s.store.BySlug(ctx, b.Slug)
		s.Require().NoError(err)
		s.Equal(b.ID, got.ID)
		s.Equal(b.NominationID, got.NominationID)
		s.Equal(b.Review, got.Review)
	})

	s.Run("by nomination id", func() {
		got, err := s.store.ByNominationID(ctx, b.NominationID)
		s.Require().NoError(err)
		s.Equal(b.ID, got.ID)
	})

	s.Run("unknown slug", func() {
		_, err := s.store.BySlug(ctx, "nobody-here")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresBossSuite) TestUniqueness() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	b := s.newBoss("alex-morgan-suffix", now)
	s.Require().NoError(s.store.Create(ctx, b))

	s.Run("slug collision", func() {
		dup := s.newBoss(b.Slug, now)
		s.ErrorIs(s.store.Create(ctx, dup), sentinel.ErrConflict)
	})

	s.Run("one boss per nomination", func() {
		dup := s.newBoss("other-slug", now)
		dup.NominationID = b.NominationID
		s.ErrorIs(s.store.Create(ctx, dup), sentinel.ErrConflict)
	})
}

func (s *PostgresBossSuite) TestListNewestFirst() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	older := s.newBoss("older-boss", base)
	newer := s.newBoss("newer-boss", base.Add(time.Minute))
	s.Require().NoError(s.store.Create(ctx, older))
	s.Require().NoError(s.store.Create(ctx, newer))

	all, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(newer.ID, all[0].ID)
	s.Equal(older.ID, all[1].ID)
}
