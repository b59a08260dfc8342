package memory

import (
	"context"
	"testing"
	"time"

	"github.com/bcnelson/stackex/internal/domain"
	"github.com/bcnelson/stackex/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, New())
}

func TestStoreReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	rec := &domain.SavedStackRecord{ID: "a", UserID: "u", Stacks: domain.StringList{"Go"}, CreatedAt: time.Now()}
	require.NoError(t, s.CreateSavedStack(ctx, rec))

	rec.Stacks[0] = "mutated"
	got, err := s.GetSavedStack(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.StringList{"Go"}, got.Stacks)

	got.Stacks[0] = "mutated again"
	again, _ := s.GetSavedStack(ctx, "a")
	assert.Equal(t, domain.StringList{"Go"}, again.Stacks)
}
