package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/macrochain/macrochain/internal/report"
	"github.com/macrochain/macrochain/internal/research"
	"github.com/macrochain/macrochain/internal/store"
	"github.com/macrochain/macrochain/pkg/config"
	"github.com/macrochain/macrochain/pkg/logger"
	"github.com/macrochain/macrochain/pkg/redis"
)

// ResultStore is the persistence surface the handlers need. Nil when
// DATABASE_URL is not configured.
type ResultStore interface {
	Save(ctx context.Context, result *research.ResearchResult) error
	GetByID(ctx context.Context, id string) (*research.ResearchResult, error)
	ListRecent(ctx context.Context, limit int) ([]store.Summary, error)
}

// ResearchHandler handles research API endpoints.
type ResearchHandler struct {
	pipeline *research.Pipeline
	repo     ResultStore
	cache    *redis.Cache
	cfg      *config.Config
	logger   *logger.Logger
}

// NewResearchHandler creates a new research handler. repo may be nil when
// persistence is disabled.
func NewResearchHandler(pipeline *research.Pipeline, repo ResultStore, cache *redis.Cache, cfg *config.Config, log *logger.Logger) *ResearchHandler {
	return &ResearchHandler{
		pipeline: pipeline,
		repo:     repo,
		cache:    cache,
		cfg:      cfg,
		logger:   log,
	}
}

// AnalyzeRequest is the analyze endpoint's request body.
type AnalyzeRequest struct {
	Query  string   `json:"query"`
	Assets []string `json:"assets,omitempty"`
}

// AnalyzeResponse carries the formatted document plus the raw result.
type AnalyzeResponse struct {
	Document report.Document          `json:"document"`
	Result   *research.ResearchResult `json:"result"`
}

// Analyze runs the research pipeline for a query.
// POST /api/research/analyze
func (h *ResearchHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cacheKey := redis.ResearchKey(req.Query, req.Assets)
	var cached AnalyzeResponse
	if found, _ := h.cache.Get(ctx, cacheKey, &cached); found {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	result, err := h.pipeline.Execute(ctx, req.Query, req.Assets)
	if err != nil {
		if errors.Is(err, research.ErrInvalidQuery) {
			respondError(w, http.StatusBadRequest, "Query must not be empty")
			return
		}
		h.logger.WithError(err).Error("Research pipeline failed")
		respondError(w, http.StatusInternalServerError, "Research pipeline failed")
		return
	}

	resp := AnalyzeResponse{
		Document: report.Format(result),
		Result:   result,
	}

	if err := h.cache.Set(ctx, cacheKey, resp, h.cfg.Research.CacheTTL); err != nil {
		h.logger.WithError(err).Warn("Failed to cache research response")
	}

	if h.repo != nil {
		if err := h.repo.Save(ctx, result); err != nil {
			h.logger.WithError(err).Error("Failed to persist research result")
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetByID returns a stored research result.
// GET /api/research/{id}
func (h *ResearchHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, http.StatusNotImplemented, "Result persistence is not configured")
		return
	}

	id := mux.Vars(r)["id"]
	result, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Research result not found")
			return
		}
		h.logger.WithError(err).Error("Failed to load research result")
		respondError(w, http.StatusInternalServerError, "Failed to load research result")
		return
	}

	respondJSON(w, http.StatusOK, AnalyzeResponse{
		Document: report.Format(result),
		Result:   result,
	})
}

// ListRecent returns summaries of recent research runs.
// GET /api/research
func (h *ResearchHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, http.StatusNotImplemented, "Result persistence is not configured")
		return
	}

	summaries, err := h.repo.ListRecent(r.Context(), h.cfg.Research.ListLimit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list research results")
		respondError(w, http.StatusInternalServerError, "Failed to list research results")
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"results": summaries,
		"count":   len(summaries),
	})
}

// Health reports liveness plus component availability.
// GET /health
func (h *ResearchHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"service":     "macrochain-research",
		"version":     research.PipelineVersion,
		"persistence": h.repo != nil,
	})
}
