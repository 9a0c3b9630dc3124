//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"bestbosses/internal/notify"
	"bestbosses/internal/notify/store"
	"bestbosses/pkg/platform/sentinel"
	txcontext "bestbosses/pkg/platform/tx"
	"bestbosses/pkg/testutil/containers"
)

type PostgresOutboxSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	outbox   *store.PostgresOutbox
}

func TestPostgresOutboxSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresOutboxSuite))
}

func (s *PostgresOutboxSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.outbox = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresOutboxSuite) SetupTest() {
	s.Require().NoError(s.postgres.Truncate(context.Background()))
}

func (s *PostgresOutboxSuite) enqueue(t notify.Type, to string, at time.Time) notify.Message {
	msg := notify.NewMessage(t, to, map[string]string{
		notify.DataNominatorFirstName: "Jane",
	}, at)
	s.Require().NoError(s.outbox.Enqueue(context.Background(), msg))
	return msg
}

func (s *PostgresOutboxSuite) TestEnqueueAndDrain() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	first := s.enqueue(notify.TypeSubmitted, "jane@example.com", base)
	second := s.enqueue(notify.TypeApprovedBoss, "alex@example.com", base.Add(time.Second))

	// ==================== oldest first, payload intact ====================
	batch, err := s.outbox.NextBatch(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(batch, 2)
	s.Equal(first.ID, batch[0].ID)
	s.Equal(notify.TypeSubmitted, batch[0].Type)
	s.Equal("jane@example.com", batch[0].To)
	s.Equal("Jane", batch[0].Data[notify.DataNominatorFirstName])
	s.Equal(second.ID, batch[1].ID)

	// ==================== published rows leave the batch ====================
	err = s.outbox.MarkPublished(ctx, []uuid.UUID{first.ID}, base.Add(time.Minute))
	s.Require().NoError(err)

	batch, err = s.outbox.NextBatch(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(batch, 1)
	s.Equal(second.ID, batch[0].ID)

	err = s.outbox.MarkPublished(ctx, []uuid.UUID{second.ID}, base.Add(time.Minute))
	s.Require().NoError(err)

	batch, err = s.outbox.NextBatch(ctx, 10)
	s.Require().NoError(err)
	s.Empty(batch)
}

func (s *PostgresOutboxSuite) TestEnqueueDuplicate() {
	ctx := context.Background()
	msg := s.enqueue(notify.TypeSubmitted, "jane@example.com", time.Now().UTC())

	err := s.outbox.Enqueue(ctx, msg)
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresOutboxSuite) TestBatchLimit() {
	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := 0; i < 5; i++ {
		s.enqueue(notify.TypeSubmitted, "jane@example.com", base.Add(time.Duration(i)*time.Second))
	}

	batch, err := s.outbox.NextBatch(context.Background(), 3)
	s.Require().NoError(err)
	s.Len(batch, 3)
}

// TestEnqueueRollsBackWithTransaction verifies the outbox write rides the
// caller's transaction: a rolled-back lifecycle transition leaves nothing
// behind to publish.
func (s *PostgresOutboxSuite) TestEnqueueRollsBackWithTransaction() {
	ctx := context.Background()

	tx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)

	msg := notify.NewMessage(notify.TypeApprovedNominator, "jane@example.com", nil, time.Now().UTC())
	s.Require().NoError(s.outbox.Enqueue(txcontext.WithTx(ctx, tx), msg))
	s.Require().NoError(tx.Rollback())

	batch, err := s.outbox.NextBatch(ctx, 10)
	s.Require().NoError(err)
	s.Empty(batch)
}

func (s *PostgresOutboxSuite) TestEnqueueCommitsWithTransaction() {
	ctx := context.Background()

	tx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)

	msg := notify.NewMessage(notify.TypeApprovedNominator, "jane@example.com", nil, time.Now().UTC())
	s.Require().NoError(s.outbox.Enqueue(txcontext.WithTx(ctx, tx), msg))
	s.Require().NoError(tx.Commit())

	batch, err := s.outbox.NextBatch(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(batch, 1)
	s.Equal(msg.ID, batch[0].ID)
}
