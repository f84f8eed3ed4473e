package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrochain/macrochain/internal/research"
	"github.com/macrochain/macrochain/pkg/config"
	"github.com/macrochain/macrochain/pkg/database"
	"github.com/macrochain/macrochain/pkg/logger"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()

	// Skip if DATABASE_URL is not set
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	repo := NewRepository(db)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	p := research.NewPipeline(logger.NewNop())
	result, err := p.Execute(ctx, "Analyze Bitcoin market structure", nil)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, result))

	// Saving the same run again is a no-op, not an error.
	require.NoError(t, repo.Save(ctx, result))

	loaded, err := repo.GetByID(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.ID, loaded.ID)
	assert.Equal(t, result.Query, loaded.Query)
	assert.Equal(t, result.OverallConfidence, loaded.OverallConfidence)
	assert.Len(t, loaded.Findings, 4)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_ListAndPrune(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	p := research.NewPipeline(logger.NewNop())
	result, err := p.Execute(ctx, "ethereum onchain overview", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, result))

	summaries, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, summaries)

	// Nothing is older than a cutoff in the past.
	deleted, err := repo.DeleteOlderThan(ctx, time.Now().UTC().AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, int64(0))
}
