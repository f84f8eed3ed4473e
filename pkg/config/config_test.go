package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_ENABLED", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8090" {
		t.Errorf("Port = %s, want 8090", cfg.Port)
	}
	if cfg.Database.Enabled() {
		t.Error("Expected persistence disabled without DATABASE_URL")
	}
	if cfg.Redis.Enabled {
		t.Error("Expected Redis disabled by default")
	}
	if cfg.Research.RetentionDays != 30 {
		t.Errorf("RetentionDays = %d, want 30", cfg.Research.RetentionDays)
	}
	if cfg.Research.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", cfg.Research.CacheTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://localhost/macrochain")
	t.Setenv("RESEARCH_RETENTION_DAYS", "7")
	t.Setenv("RESEARCH_CACHE_TTL", "15m")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Env != "production" {
		t.Errorf("Env = %s, want production", cfg.Env)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %s, want 9000", cfg.Port)
	}
	if !cfg.Database.Enabled() {
		t.Error("Expected persistence enabled with DATABASE_URL")
	}
	if cfg.Research.RetentionDays != 7 {
		t.Errorf("RetentionDays = %d, want 7", cfg.Research.RetentionDays)
	}
	if cfg.Research.CacheTTL != 15*time.Minute {
		t.Errorf("CacheTTL = %v, want 15m", cfg.Research.CacheTTL)
	}
	if cfg.Research.RateLimitRPS != 2.5 {
		t.Errorf("RateLimitRPS = %v, want 2.5", cfg.Research.RateLimitRPS)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("ENV", "sandbox")

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid ENV")
	}
}

func TestLoad_InvalidRetention(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("RESEARCH_RETENTION_DAYS", "-1")

	if _, err := Load(); err == nil {
		t.Error("Expected error for negative retention")
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("RESEARCH_RETENTION_DAYS", "not-a-number")
	t.Setenv("RESEARCH_CACHE_TTL", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Research.RetentionDays != 30 {
		t.Errorf("RetentionDays = %d, want default 30", cfg.Research.RetentionDays)
	}
	if cfg.Research.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v, want default 1h", cfg.Research.CacheTTL)
	}
}
