package integration

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/model"
	"orderdesk/internal/queue"
	"orderdesk/internal/repository"
)

func TestPostgresWithLocalFallback_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	ctx := context.Background()

	remote := repository.NewPostgresRepository(testDB.Pool, logger)
	local := repository.NewFileRepository(t.TempDir(), logger)
	repo := repository.NewFallbackRepository(remote, local, logger)

	store := queue.NewStore(logger)
	_, err := store.Create(model.NewOrder{Description: "Brass plate", CustomerID: "cust-1", Priority: model.PriorityHigh})
	require.NoError(t, err)
	store.IssueToken("ten percent", "", "staff-1")

	t.Run("Save mirrors into both backends", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		require.NoError(t, repo.Save(ctx, store.Snapshot()))

		fromRemote, err := remote.Load(ctx)
		require.NoError(t, err)
		fromLocal, err := local.Load(ctx)
		require.NoError(t, err)

		require.NotNil(t, fromRemote)
		assert.Equal(t, fromRemote, fromLocal)
		assert.Len(t, fromRemote.Orders, 1)
		assert.Len(t, fromRemote.Tokens, 1)
	})

	t.Run("Load falls back when the database is empty", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		snap, err := repo.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, snap)
		assert.Contains(t, snap.Orders, "ED001")
		assert.Equal(t, int64(2), snap.OrderCounter)
	})

	t.Run("Save replaces earlier rows", func(t *testing.T) {
		_, err := store.Complete("ED001", "staff-1")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, store.Snapshot()))

		snap, err := remote.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Orders)
		assert.Contains(t, snap.History, "ED001")
		assert.Equal(t, 1, snap.Statistics.TotalCompleted)
	})
}
