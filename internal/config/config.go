// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
// It is read once at process start and passed into the pipeline as an
// immutable value.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Insights InsightsConfig `mapstructure:"insights"`
	Storage  StorageConfig  `mapstructure:"storage"`
	DB       DBConfig       `mapstructure:"db"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// InsightsConfig governs the extraction pipeline.
type InsightsConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	Concurrency    int    `mapstructure:"concurrency"`
	MaxProducts    int    `mapstructure:"max_products"`
	MaxFAQs        int    `mapstructure:"max_faqs"`
	MaxFAQPages    int    `mapstructure:"max_faq_pages"`
	HeroCap        int    `mapstructure:"hero_cap"`
	MinPolicyBytes int    `mapstructure:"min_policy_bytes"`
}

// StorageConfig selects the blob provider used to archive raw HTML.
type StorageConfig struct {
	Provider  string `mapstructure:"provider"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	Prefix    string `mapstructure:"prefix"`
}

// DBConfig selects the relational persistence adapter.
type DBConfig struct {
	Provider string `mapstructure:"provider"`
	DSN      string `mapstructure:"dsn"`
}

// QueueConfig selects the run-completed event publisher.
type QueueConfig struct {
	Provider  string `mapstructure:"provider"`
	ProjectID string `mapstructure:"project_id"`
	TopicID   string `mapstructure:"topic_id"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INSIGHTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("insights.user_agent", "shopsight-insights/1.0 (+https://shopsight.dev)")
	v.SetDefault("insights.timeout_seconds", 20)
	v.SetDefault("insights.concurrency", 16)
	v.SetDefault("insights.max_products", 2000)
	v.SetDefault("insights.max_faqs", 60)
	v.SetDefault("insights.max_faq_pages", 5)
	v.SetDefault("insights.hero_cap", 12)
	v.SetDefault("insights.min_policy_bytes", 400)
	v.SetDefault("storage.provider", "noop")
	v.SetDefault("storage.prefix", "snapshots")
	v.SetDefault("db.provider", "noop")
	v.SetDefault("queue.provider", "noop")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Insights.UserAgent == "" {
		return fmt.Errorf("insights.user_agent must be set")
	}
	if c.Insights.TimeoutSeconds <= 0 {
		return fmt.Errorf("insights.timeout_seconds must be > 0")
	}
	if c.Insights.Concurrency <= 0 {
		return fmt.Errorf("insights.concurrency must be > 0")
	}
	if c.Insights.MaxProducts <= 0 {
		return fmt.Errorf("insights.max_products must be > 0")
	}
	if c.Insights.HeroCap <= 0 {
		return fmt.Errorf("insights.hero_cap must be > 0")
	}
	if c.Storage.Provider == "gcs" && c.Storage.GCSBucket == "" {
		return fmt.Errorf("storage.gcs_bucket must be set when storage.provider is gcs")
	}
	if c.DB.Provider == "postgres" && c.DB.DSN == "" {
		return fmt.Errorf("db.dsn must be set when db.provider is postgres")
	}
	if c.Queue.Provider == "pubsub" && (c.Queue.ProjectID == "" || c.Queue.TopicID == "") {
		return fmt.Errorf("queue.project_id and queue.topic_id must be set when queue.provider is pubsub")
	}
	return nil
}

// RequestTimeout converts the configured timeout into a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Insights.TimeoutSeconds) * time.Second
}
