//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"bestbosses/internal/nomination"
	"bestbosses/internal/nomination/store"
	id "bestbosses/pkg/domain"
	"bestbosses/pkg/platform/sentinel"
	"bestbosses/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.Truncate(context.Background()))
}

func (s *PostgresStoreSuite) newPending(createdAt time.Time) *nomination.Nomination {
	return &nomination.Nomination{
		ID: id.NewNominationID(),
		Fields: nomination.Fields{
			BossFirstName:   "Alex",
			BossLastName:    "Morgan",
			Company:         "Acme Corp",
			Location:        "Berlin",
			Industry:        "Technology",
			Function:        "Engineering",
			Email:           "alex.morgan@example.com",
			LinkedInProfile: "https://linkedin.com/in/alexmorgan",
			Review:          "A supportive leader who always made time for the team.",
		},
		NominatorID: id.NewUserID(),
		Status:      nomination.StatusPending,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func (s *PostgresStoreSuite) TestCreateAndByID() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	n := s.newPending(now)
	s.Require().NoError(s.store.Create(ctx, n))

	got, err := s.store.ByID(ctx, n.ID)
	s.Require().NoError(err)
	s.Equal(n.ID, got.ID)
	s.Equal(n.NominatorID, got.NominatorID)
	s.Equal(n.Fields, got.Fields)
	s.Equal(nomination.StatusPending, got.Status)
	s.True(got.CreatedAt.Equal(now))

	s.Run("unknown id", func() {
		_, err := s.store.ByID(ctx, id.NewNominationID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestUpdateStatus() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	n := s.newPending(now)
	s.Require().NoError(s.store.Create(ctx, n))

	// ==================== pending transitions once ====================
	later := now.Add(time.Minute)
	updated, err := s.store.UpdateStatus(ctx, n.ID, nomination.StatusApproved, later)
	s.Require().NoError(err)
	s.Equal(nomination.StatusApproved, updated.Status)
	s.True(updated.UpdatedAt.Equal(later))

	// ==================== terminal rows never move ====================
	_, err = s.store.UpdateStatus(ctx, n.ID, nomination.StatusRejected, later.Add(time.Minute))
	s.ErrorIs(err, sentinel.ErrInvalidState)

	persisted, err := s.store.ByID(ctx, n.ID)
	s.Require().NoError(err)
	s.Equal(nomination.StatusApproved, persisted.Status)

	// ==================== missing rows are distinguishable ====================
	_, err = s.store.UpdateStatus(ctx, id.NewNominationID(), nomination.StatusApproved, later)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentModeration drives racing status updates at the database and
// verifies the conditional UPDATE admits exactly one winner.
func (s *PostgresStoreSuite) TestConcurrentModeration() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	n := s.newPending(now)
	s.Require().NoError(s.store.Create(ctx, n))

	const attempts = 16
	var wg sync.WaitGroup
	var wins, losses atomic.Int32

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			next := nomination.StatusApproved
			if idx%2 == 1 {
				next = nomination.StatusRejected
			}
			_, err := s.store.UpdateStatus(ctx, n.ID, next, now.Add(time.Minute))
			switch {
			case err == nil:
				wins.Add(1)
			default:
				losses.Add(1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
	s.Equal(int32(attempts-1), losses.Load())

	got, err := s.store.ByID(ctx, n.ID)
	s.Require().NoError(err)
	s.True(got.Status.Terminal())
}

func (s *PostgresStoreSuite) TestListOrdering() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	nominator := id.NewUserID()
	var ids []id.NominationID
	for i := 0; i < 3; i++ {
		n := s.newPending(base.Add(time.Duration(i) * time.Second))
		n.NominatorID = nominator
		s.Require().NoError(s.store.Create(ctx, n))
		ids = append(ids, n.ID)
	}
	other := s.newPending(base.Add(10 * time.Second))
	s.Require().NoError(s.store.Create(ctx, other))

	s.Run("list is newest first", func() {
		all, err := s.store.List(ctx)
		s.Require().NoError(err)
		s.Require().Len(all, 4)
		s.Equal(other.ID, all[0].ID)
		s.Equal(ids[2], all[1].ID)
		s.Equal(ids[0], all[3].ID)
	})

	s.Run("by nominator filters and orders", func() {
		mine, err := s.store.ByNominator(ctx, nominator)
		s.Require().NoError(err)
		s.Require().Len(mine, 3)
		s.Equal(ids[2], mine[0].ID)
		s.Equal(ids[0], mine[2].ID)
	})

	s.Run("unknown nominator is empty", func() {
		none, err := s.store.ByNominator(ctx, id.NewUserID())
		s.Require().NoError(err)
		s.Empty(none)
	})
}
