package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/macrochain/macrochain/internal/scheduler"
	"github.com/macrochain/macrochain/internal/scheduler/jobs"
	"github.com/macrochain/macrochain/internal/store"
	"github.com/macrochain/macrochain/pkg/config"
	"github.com/macrochain/macrochain/pkg/database"
	"github.com/macrochain/macrochain/pkg/logger"
)

// schedulerCmd runs the background maintenance worker.
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the background maintenance scheduler",
	Long: `Runs the cron scheduler with the retention job that prunes stored
research results past the configured retention window. Requires
DATABASE_URL.

Example:
  go run ./cmd/macrochain scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	if !cfg.Database.Enabled() {
		return fmt.Errorf("DATABASE_URL is required for the scheduler")
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := store.NewRepository(db)
	if err := repo.EnsureSchema(cmd.Context()); err != nil {
		return err
	}

	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewRetentionJob(repo, cfg, log)); err != nil {
		return fmt.Errorf("add retention job: %w", err)
	}

	sched.Start()
	defer sched.Stop()

	fmt.Println("Scheduler running. Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
