package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrochain/macrochain/internal/api/handlers"
	"github.com/macrochain/macrochain/internal/research"
	"github.com/macrochain/macrochain/internal/store"
	"github.com/macrochain/macrochain/pkg/config"
	"github.com/macrochain/macrochain/pkg/logger"
	"github.com/macrochain/macrochain/pkg/redis"
)

// fakeStore is an in-memory ResultStore for handler tests.
type fakeStore struct {
	saved map[string]*research.ResearchResult
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string]*research.ResearchResult)}
}

func (f *fakeStore) Save(ctx context.Context, result *research.ResearchResult) error {
	f.saved[result.ID] = result
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*research.ResearchResult, error) {
	result, ok := f.saved[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return result, nil
}

func (f *fakeStore) ListRecent(ctx context.Context, limit int) ([]store.Summary, error) {
	var out []store.Summary
	for _, r := range f.saved {
		out = append(out, store.Summary{
			ID:                r.ID,
			Query:             r.Query.RawQuery,
			Category:          string(r.Query.Category),
			OverallConfidence: r.OverallConfidence,
			CreatedAt:         r.GeneratedAt,
		})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port: "0",
		Env:  "development",
		Research: config.ResearchConfig{
			CacheTTL:       0,
			RetentionDays:  30,
			RateLimitRPS:   1000,
			RateLimitBurst: 1000,
			ListLimit:      50,
		},
	}
}

func newTestRouter(t *testing.T, repo handlers.ResultStore) http.Handler {
	t.Helper()

	cfg := testConfig()
	log := logger.NewNop()

	redisClient, err := redis.New(cfg) // Redis disabled, cache is a no-op
	require.NoError(t, err)
	cache := redis.NewCache(redisClient, "test")

	pipeline := research.NewPipeline(log)
	researchHandler := handlers.NewResearchHandler(pipeline, repo, cache, cfg, log)
	streamHandler := handlers.NewStreamHandler(pipeline, log)

	return NewRouter(cfg, researchHandler, streamHandler, log)
}

func postAnalyze(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/research/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestAnalyze_OK(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := postAnalyze(t, router, `{"query": "Analyze Bitcoin market structure"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.AnalyzeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.Result.ID)
	assert.Equal(t, []string{"bitcoin"}, resp.Result.Query.Assets)
	assert.Equal(t, research.CategoryStructure, resp.Result.Query.Category)
	assert.Len(t, resp.Result.Findings, 4)
	assert.Len(t, resp.Document.Sections, 9)
}

func TestAnalyze_EmptyQuery(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := postAnalyze(t, router, `{"query": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Query must not be empty")
}

func TestAnalyze_InvalidBody(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := postAnalyze(t, router, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnalyze_PersistsWhenStoreConfigured(t *testing.T) {
	repo := newFakeStore()
	router := newTestRouter(t, repo)

	rr := postAnalyze(t, router, `{"query": "ethereum onchain activity"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, repo.saved, 1)
}

func TestGetByID(t *testing.T) {
	repo := newFakeStore()
	router := newTestRouter(t, repo)

	rr := postAnalyze(t, router, `{"query": "bitcoin sentiment"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp handlers.AnalyzeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodGet, "/api/research/"+resp.Result.ID, nil)
	got := httptest.NewRecorder()
	router.ServeHTTP(got, req)
	require.Equal(t, http.StatusOK, got.Code)

	var fetched handlers.AnalyzeResponse
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &fetched))
	assert.Equal(t, resp.Result.ID, fetched.Result.ID)
}

func TestGetByID_NotFound(t *testing.T) {
	router := newTestRouter(t, newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/api/research/nonexistent-id", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetByID_PersistenceDisabled(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/research/some-id", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotImplemented, rr.Code)
}

func TestListRecent(t *testing.T) {
	repo := newFakeStore()
	router := newTestRouter(t, repo)

	postAnalyze(t, router, `{"query": "bitcoin overview"}`)
	postAnalyze(t, router, `{"query": "ethereum overview"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/research", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Results []store.Summary `json:"results"`
		Count   int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestHealthAndInfo(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)

	req = httptest.NewRequest(http.MethodGet, "/info", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, "macrochain-research", info["service"])
	assert.Len(t, info["phases"], 4)
	assert.Len(t, info["categories"], 9)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Research.RateLimitRPS = 1
	cfg.Research.RateLimitBurst = 1

	log := logger.NewNop()
	redisClient, err := redis.New(cfg)
	require.NoError(t, err)
	pipeline := research.NewPipeline(log)
	researchHandler := handlers.NewResearchHandler(pipeline, nil, redis.NewCache(redisClient, "test"), cfg, log)
	streamHandler := handlers.NewStreamHandler(pipeline, log)
	router := NewRouter(cfg, researchHandler, streamHandler, log)

	// First request consumes the burst allowance; the second is rejected.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestStream(t *testing.T) {
	router := newTestRouter(t, nil)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/research/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(handlers.AnalyzeRequest{Query: "Analyze Bitcoin market structure"}))

	var phases []research.Phase
	for i := 0; i < 4; i++ {
		var ev handlers.StreamEvent
		require.NoError(t, conn.ReadJSON(&ev))
		require.Equal(t, "phase", ev.Type)
		require.NotNil(t, ev.Finding)
		phases = append(phases, ev.Phase)
	}
	assert.Equal(t, research.Phases(), phases)

	var final handlers.StreamEvent
	require.NoError(t, conn.ReadJSON(&final))
	assert.Equal(t, "result", final.Type)
	require.NotNil(t, final.Document)
	assert.Len(t, final.Document.Sections, 9)
}

func TestStream_InvalidQuery(t *testing.T) {
	router := newTestRouter(t, nil)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/research/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(handlers.AnalyzeRequest{Query: ""}))

	var ev handlers.StreamEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "error", ev.Type)
}
