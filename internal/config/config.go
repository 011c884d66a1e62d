package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Placement  PlacementConfig  `mapstructure:"placement"`
	Review     ReviewConfig     `mapstructure:"review"`
	Engagement EngagementConfig `mapstructure:"engagement"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host" validate:"required"`
	Port            int               `mapstructure:"port" validate:"required,min=1,max=65535"`
	Username        string            `mapstructure:"username" validate:"required"`
	Password        string            `mapstructure:"password"`
	Database        string            `mapstructure:"database" validate:"required"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type PlacementConfig struct {
	QuestionBank   string `mapstructure:"question_bank" validate:"required"`
	BlockSize      int    `mapstructure:"block_size" validate:"min=1"`
	PromotePercent int    `mapstructure:"promote_percent" validate:"min=1,max=100"`
	KeepPercent    int    `mapstructure:"keep_percent" validate:"min=0,ltefield=PromotePercent"`
}

type ReviewConfig struct {
	HardIntervalDays     int `mapstructure:"hard_interval_days" validate:"min=1"`
	GoodBaseDays         int `mapstructure:"good_base_days" validate:"min=1"`
	EasyBaseDays         int `mapstructure:"easy_base_days" validate:"min=1"`
	LearnedThresholdDays int `mapstructure:"learned_threshold_days" validate:"min=1"`
	MaxIntervalDays      int `mapstructure:"max_interval_days" validate:"min=1"`
}

type EngagementConfig struct {
	DailyGoal          int `mapstructure:"daily_goal" validate:"min=1"`
	MaxChallengeClaims int `mapstructure:"max_challenge_claims" validate:"min=0"`
}

type DictionaryConfig struct {
	Host           string `mapstructure:"host"`
	Key            string `mapstructure:"key"`
	CacheDirectory string `mapstructure:"cache_directory"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"min=1"`
	RetryCount     int    `mapstructure:"retry_count" validate:"min=0"`
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/lernpfad")
	}

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "lernpfad")
	v.SetDefault("database.database", "lernpfad")
	v.SetDefault("placement.question_bank", filepath.Join("assets", "placement_questions.yaml"))
	v.SetDefault("placement.block_size", 10)
	v.SetDefault("placement.promote_percent", 80)
	v.SetDefault("placement.keep_percent", 60)
	v.SetDefault("review.hard_interval_days", 2)
	v.SetDefault("review.good_base_days", 4)
	v.SetDefault("review.easy_base_days", 7)
	v.SetDefault("review.learned_threshold_days", 21)
	v.SetDefault("review.max_interval_days", 3650)
	v.SetDefault("engagement.daily_goal", 10)
	v.SetDefault("engagement.max_challenge_claims", 2)
	v.SetDefault("dictionary.cache_directory", filepath.Join("dictionaries", "cache"))
	v.SetDefault("dictionary.timeout_seconds", 10)
	v.SetDefault("dictionary.retry_count", 3)

	// Credentials come from the environment only, never from the config file.
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("dictionary.host", "DICTIONARY_API_HOST"); err != nil {
		return nil, fmt.Errorf("failed to bind DICTIONARY_API_HOST environment variable: %w", err)
	}
	if err := v.BindEnv("dictionary.key", "DICTIONARY_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind DICTIONARY_API_KEY environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	validate, trans, err := newValidator()
	if err != nil {
		return err
	}

	err = validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("failed to validate configuration: %w", err)
	}

	messages := make([]error, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, errors.New(fieldError.Translate(trans)))
	}
	return fmt.Errorf("invalid configuration: %w", errors.Join(messages...))
}
