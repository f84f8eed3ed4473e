package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/macrochain/macrochain/internal/store"
	"github.com/macrochain/macrochain/pkg/config"
	"github.com/macrochain/macrochain/pkg/logger"
)

// RetentionJob prunes stored research results older than the configured
// retention window. Registered only when persistence is enabled.
type RetentionJob struct {
	repo   *store.Repository
	config *config.Config
	logger *logger.Logger
}

// NewRetentionJob creates a new retention job
func NewRetentionJob(repo *store.Repository, cfg *config.Config, log *logger.Logger) *RetentionJob {
	return &RetentionJob{
		repo:   repo,
		config: cfg,
		logger: log,
	}
}

// Name returns the job name
func (j *RetentionJob) Name() string {
	return "research_retention"
}

// Schedule returns the cron schedule (every day at 3 AM)
func (j *RetentionJob) Schedule() string {
	return "0 0 3 * * *" // with seconds
}

// Run prunes expired research results
func (j *RetentionJob) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -j.config.Research.RetentionDays)

	j.logger.WithField("cutoff", cutoff.Format("2006-01-02")).Info("Pruning stored research results")

	deleted, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune research results: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"deleted":        deleted,
		"retention_days": j.config.Research.RetentionDays,
	}).Info("Retention pruning completed")

	return nil
}
