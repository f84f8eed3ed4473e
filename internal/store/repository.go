// Package store persists completed research runs in PostgreSQL.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/macrochain/macrochain/internal/research"
	"github.com/macrochain/macrochain/pkg/database"
)

// ErrNotFound is returned when no stored run matches the requested ID.
var ErrNotFound = errors.New("research result not found")

// Summary is the listing row for a stored run; the full result stays in
// the jsonb column until fetched by ID.
type Summary struct {
	ID                string    `json:"research_id"`
	Query             string    `json:"query"`
	Category          string    `json:"category"`
	OverallConfidence float64   `json:"overall_confidence"`
	CreatedAt         time.Time `json:"created_at"`
}

// Repository stores and retrieves research results.
type Repository struct {
	db *database.DB
}

// NewRepository creates a repository over the shared pool.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Schema is the DDL the repository expects. Applied by EnsureSchema at
// startup; idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS research_results (
	id          UUID PRIMARY KEY,
	query       TEXT NOT NULL,
	category    TEXT NOT NULL,
	assets      TEXT[] NOT NULL DEFAULT '{}',
	confidence  DOUBLE PRECISION NOT NULL,
	result      JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_research_results_created_at ON research_results (created_at DESC);
`

// EnsureSchema creates the results table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to ensure research schema: %w", err)
	}
	return nil
}

// Save persists a completed run.
func (r *Repository) Save(ctx context.Context, result *research.ResearchResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal research result: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO research_results (id, query, category, assets, confidence, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		result.ID,
		result.Query.RawQuery,
		string(result.Query.Category),
		result.Query.Assets,
		result.OverallConfidence,
		payload,
		result.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save research result: %w", err)
	}
	return nil
}

// GetByID loads a stored run. Returns ErrNotFound when absent.
func (r *Repository) GetByID(ctx context.Context, id string) (*research.ResearchResult, error) {
	var payload []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT result FROM research_results WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load research result: %w", err)
	}

	var result research.ResearchResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal research result: %w", err)
	}
	return &result, nil
}

// ListRecent returns summaries of the most recent runs, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Summary, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, query, category, confidence, created_at
		FROM research_results
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list research results: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Query, &s.Category, &s.OverallConfidence, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan research summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteOlderThan prunes runs created before the cutoff and reports how
// many rows were removed.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM research_results WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune research results: %w", err)
	}
	return tag.RowsAffected(), nil
}
