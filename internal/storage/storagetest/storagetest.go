// Package storagetest holds conformance checks shared by the storage
// implementations.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/bcnelson/stackex/internal/domain"
	"github.com/bcnelson/stackex/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a fresh, empty store.
func Run(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, s.Ping(ctx))
	})

	t.Run("create and get", func(t *testing.T) {
		rec := &domain.SavedStackRecord{
			ID:        "rec-get",
			UserID:    "alice",
			Stacks:    domain.StringList{"React (latest)", "Node.js 20"},
			CreatedAt: base,
		}
		require.NoError(t, s.CreateSavedStack(ctx, rec))

		got, err := s.GetSavedStack(ctx, "rec-get")
		require.NoError(t, err)
		assert.Equal(t, rec.UserID, got.UserID)
		assert.Equal(t, rec.Stacks, got.Stacks)
		assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))

		err = s.CreateSavedStack(ctx, rec)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := s.GetSavedStack(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("list newest first per user", func(t *testing.T) {
		for i, id := range []string{"l-1", "l-2", "l-3"} {
			require.NoError(t, s.CreateSavedStack(ctx, &domain.SavedStackRecord{
				ID:        id,
				UserID:    "bob",
				Stacks:    domain.StringList{id},
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}))
		}
		require.NoError(t, s.CreateSavedStack(ctx, &domain.SavedStackRecord{
			ID: "other", UserID: "carol", Stacks: domain.StringList{"Go"}, CreatedAt: base,
		}))

		list, err := s.ListSavedStacks(ctx, "bob")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "l-3", list[0].ID)
		assert.Equal(t, "l-2", list[1].ID)
		assert.Equal(t, "l-1", list[2].ID)

		empty, err := s.ListSavedStacks(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.CreateSavedStack(ctx, &domain.SavedStackRecord{
			ID: "del", UserID: "dave", Stacks: domain.StringList{"Rust"}, CreatedAt: base,
		}))
		require.NoError(t, s.DeleteSavedStack(ctx, "del"))

		_, err := s.GetSavedStack(ctx, "del")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, s.DeleteSavedStack(ctx, "del"), domain.ErrNotFound)
	})
}
