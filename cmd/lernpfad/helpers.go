package main

import (
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/lernpfad/internal/config"
	"github.com/at-ishikawa/lernpfad/internal/database"
	"github.com/at-ishikawa/lernpfad/internal/dictionary"
	"github.com/at-ishikawa/lernpfad/internal/engagement"
	"github.com/at-ishikawa/lernpfad/internal/placement"
	"github.com/at-ishikawa/lernpfad/internal/review"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func openDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open the database: %w", err)
	}
	return db, nil
}

func parseID(arg, name string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, arg)
	}
	return id, nil
}

func placementPolicy(cfg *config.Config) placement.Policy {
	return placement.Policy{
		BlockSize:      cfg.Placement.BlockSize,
		PromotePercent: cfg.Placement.PromotePercent,
		KeepPercent:    cfg.Placement.KeepPercent,
	}
}

func reviewPolicy(cfg *config.Config) review.Policy {
	policy := review.DefaultPolicy()
	policy.HardIntervalDays = cfg.Review.HardIntervalDays
	policy.GoodBaseDays = cfg.Review.GoodBaseDays
	policy.EasyBaseDays = cfg.Review.EasyBaseDays
	policy.LearnedThresholdDays = cfg.Review.LearnedThresholdDays
	policy.MaxIntervalDays = cfg.Review.MaxIntervalDays
	return policy
}

func engagementPolicy(cfg *config.Config) engagement.Policy {
	return engagement.Policy{
		DefaultDailyGoal: cfg.Engagement.DailyGoal,
		MaxClaimsPerDay:  cfg.Engagement.MaxChallengeClaims,
	}
}

// newDictionaryClient returns nil when no API credentials are configured;
// favorites then start without a translation.
func newDictionaryClient(cfg *config.Config) dictionary.Client {
	if cfg.Dictionary.Host == "" || cfg.Dictionary.Key == "" {
		return nil
	}
	return dictionary.NewHTTPClient(cfg.Dictionary.CacheDirectory, dictionary.Config{
		Host:             cfg.Dictionary.Host,
		Key:              cfg.Dictionary.Key,
		TimeoutSeconds:   cfg.Dictionary.TimeoutSeconds,
		MaxRetryAttempts: uint(cfg.Dictionary.RetryCount),
	})
}
