package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/macrochain/macrochain/internal/api/handlers"
	"github.com/macrochain/macrochain/internal/research"
	"github.com/macrochain/macrochain/pkg/config"
	"github.com/macrochain/macrochain/pkg/logger"
)

// NewRouter creates and configures the HTTP router. Routing setup happens
// only in this function.
func NewRouter(cfg *config.Config, researchHandler *handlers.ResearchHandler, streamHandler *handlers.StreamHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Service endpoints
	r.HandleFunc("/health", researchHandler.Health).Methods("GET")
	r.HandleFunc("/info", infoHandler).Methods("GET")

	// API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/research/analyze", researchHandler.Analyze).Methods("POST")
	api.HandleFunc("/research/stream", streamHandler.Stream).Methods("GET")
	api.HandleFunc("/research/{id}", researchHandler.GetByID).Methods("GET")
	api.HandleFunc("/research", researchHandler.ListRecent).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	r.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.Research.RateLimitRPS), cfg.Research.RateLimitBurst)))

	return r
}

// infoHandler returns the service's analytical capabilities.
func infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"service":    "macrochain-research",
		"version":    research.PipelineVersion,
		"phases":     research.Phases(),
		"categories": research.Categories(),
		"disclaimer": research.Disclaimer,
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// rateLimitMiddleware applies a token-bucket limit across all requests.
func rateLimitMiddleware(limiter *rate.Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
