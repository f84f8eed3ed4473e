package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/macrochain/macrochain/internal/api"
	"github.com/macrochain/macrochain/internal/api/handlers"
	"github.com/macrochain/macrochain/internal/research"
	"github.com/macrochain/macrochain/internal/store"
	"github.com/macrochain/macrochain/pkg/config"
	"github.com/macrochain/macrochain/pkg/database"
	"github.com/macrochain/macrochain/pkg/logger"
	"github.com/macrochain/macrochain/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the research API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                  - Health check
  GET  /info                    - Capability metadata
  POST /api/research/analyze    - Run the research pipeline
  GET  /api/research/stream     - Websocket with per-phase progress
  GET  /api/research/{id}       - Stored result by ID
  GET  /api/research            - Recent research runs

Example:
  go run ./cmd/macrochain api
  go run ./cmd/macrochain api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Validate the static knowledge tables before serving anything
	if err := research.ValidateKnowledge(); err != nil {
		return fmt.Errorf("knowledge validation: %w", err)
	}

	// 4. Optional persistence
	var repo handlers.ResultStore
	if cfg.Database.Enabled() {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		r := store.NewRepository(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.EnsureSchema(ctx); err != nil {
			return err
		}
		repo = r
		log.Info("Result persistence enabled")
	} else {
		log.Info("DATABASE_URL not set, result persistence disabled")
	}

	// 5. Optional response cache
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, "macrochain")

	// 6. Wire pipeline, handlers, router, server
	pipeline := research.NewPipeline(log)
	researchHandler := handlers.NewResearchHandler(pipeline, repo, cache, cfg, log)
	streamHandler := handlers.NewStreamHandler(pipeline, log)
	router := api.NewRouter(cfg, researchHandler, streamHandler, log)
	server := api.New(cfg, log, router)

	// 7. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
