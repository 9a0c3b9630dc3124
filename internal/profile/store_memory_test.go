package profile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "bestbosses/pkg/domain"
	"bestbosses/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	newProfile := func() *Profile {
		return &Profile{
			UserID:    id.NewUserID(),
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	t.Run("create then read back", func(t *testing.T) {
		store := NewInMemoryStore()
		p := newProfile()
		require.NoError(t, store.Create(ctx, p))

		got, err := store.ByUserID(ctx, p.UserID)
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", got.Email)
		assert.False(t, got.HasApprovedNomination)
	})

	t.Run("duplicate user conflicts", func(t *testing.T) {
		store := NewInMemoryStore()
		p := newProfile()
		require.NoError(t, store.Create(ctx, p))
		assert.ErrorIs(t, store.Create(ctx, p), sentinel.ErrConflict)
	})

	t.Run("set access flag", func(t *testing.T) {
		store := NewInMemoryStore()
		p := newProfile()
		require.NoError(t, store.Create(ctx, p))

		later := now.Add(time.Hour)
		require.NoError(t, store.SetHasApprovedNomination(ctx, p.UserID, true, later))

		got, err := store.ByUserID(ctx, p.UserID)
		require.NoError(t, err)
		assert.True(t, got.HasApprovedNomination)
		assert.Equal(t, later, got.UpdatedAt)
	})

	t.Run("set flag for unknown user is not found", func(t *testing.T) {
		store := NewInMemoryStore()
		err := store.SetHasApprovedNomination(ctx, id.NewUserID(), true, now)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}

func TestFromRow(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid row maps", func(t *testing.T) {
		userID := id.NewUserID()
		p, err := FromRow(Row{
			UserID:    userID.String(),
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			CreatedAt: now,
			UpdatedAt: now,
		})
		require.NoError(t, err)
		assert.Equal(t, userID, p.UserID)
	})

	t.Run("malformed user id rejects the row", func(t *testing.T) {
		_, err := FromRow(Row{UserID: "garbage", Email: "jane@example.com"})
		assert.Error(t, err)
	})

	t.Run("missing email rejects the row", func(t *testing.T) {
		_, err := FromRow(Row{UserID: id.NewUserID().String()})
		assert.Error(t, err)
	})
}
