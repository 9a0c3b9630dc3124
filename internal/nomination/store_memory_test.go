package nomination

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "bestbosses/pkg/domain"
	"bestbosses/pkg/platform/sentinel"
)

func pendingNomination(createdAt time.Time) *Nomination {
	return &Nomination{
		ID: id.NewNominationID(),
		Fields: Fields{
			BossFirstName: "Alex",
			BossLastName:  "Morgan",
			Company:       "Acme Corp",
		},
		NominatorID: id.NewUserID(),
		Status:      StatusPending,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestInMemoryStoreUpdateStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("pending transitions once", func(t *testing.T) {
		store := NewInMemoryStore()
		n := pendingNomination(now)
		require.NoError(t, store.Create(ctx, n))

		updated, err := store.UpdateStatus(ctx, n.ID, StatusApproved, now.Add(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, updated.Status)
		assert.Equal(t, now.Add(time.Minute), updated.UpdatedAt)

		_, err = store.UpdateStatus(ctx, n.ID, StatusRejected, now.Add(2*time.Minute))
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("unknown id", func(t *testing.T) {
		store := NewInMemoryStore()
		_, err := store.UpdateStatus(ctx, id.NewNominationID(), StatusApproved, now)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("concurrent transitions yield one winner", func(t *testing.T) {
		store := NewInMemoryStore()
		n := pendingNomination(now)
		require.NoError(t, store.Create(ctx, n))

		const attempts = 16
		var wg sync.WaitGroup
		errs := make([]error, attempts)
		wg.Add(attempts)
		for i := 0; i < attempts; i++ {
			go func(i int) {
				defer wg.Done()
				next := StatusApproved
				if i%2 == 1 {
					next = StatusRejected
				}
				_, errs[i] = store.UpdateStatus(ctx, n.ID, next, now)
			}(i)
		}
		wg.Wait()

		winners := 0
		for _, err := range errs {
			if err == nil {
				winners++
			}
		}
		assert.Equal(t, 1, winners)
	})
}

func TestInMemoryStoreListing(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	base := time.Now().UTC()

	older := pendingNomination(base.Add(-time.Hour))
	newer := pendingNomination(base)
	require.NoError(t, store.Create(ctx, older))
	require.NoError(t, store.Create(ctx, newer))

	t.Run("list is newest first", func(t *testing.T) {
		all, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, newer.ID, all[0].ID)
	})

	t.Run("by nominator filters", func(t *testing.T) {
		mine, err := store.ByNominator(ctx, older.NominatorID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, older.ID, mine[0].ID)
	})

	t.Run("returned records are copies", func(t *testing.T) {
		got, err := store.ByID(ctx, newer.ID)
		require.NoError(t, err)
		got.Status = StatusApproved

		again, err := store.ByID(ctx, newer.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, again.Status)
	})
}
