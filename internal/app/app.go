// Package app initializes and holds long-lived application services,
// acting as a dependency injection container.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shopsight/insights/internal/config"
	"github.com/shopsight/insights/internal/fetch"
	"github.com/shopsight/insights/internal/insights"
	"github.com/shopsight/insights/internal/logging"
	"github.com/shopsight/insights/internal/metrics"
	"github.com/shopsight/insights/internal/pipeline"
	"github.com/shopsight/insights/internal/queue"
	"github.com/shopsight/insights/internal/storage"
	"github.com/shopsight/insights/internal/storage/postgres"
)

// BrandStore persists extracted brand profiles.
type BrandStore interface {
	UpsertBrand(ctx context.Context, brand *insights.BrandContext) error
	Close()
}

// NoOpBrandStore discards profiles. It is used when persistence is
// disabled.
type NoOpBrandStore struct{}

// UpsertBrand for NoOpBrandStore does nothing and returns nil.
func (n *NoOpBrandStore) UpsertBrand(_ context.Context, _ *insights.BrandContext) error { return nil }

// Close for NoOpBrandStore does nothing.
func (n *NoOpBrandStore) Close() {}

// App holds the shared, long-lived services for the application. It is
// initialized once at startup and passed to the components that need it.
type App struct {
	Logger *zap.Logger
	Config config.Config
	Runner *pipeline.Runner
	Store  BrandStore

	events queue.Provider
}

// New creates and initializes an App from the loaded configuration. It
// fails fast if any critical service cannot be initialized.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	metrics.Init()

	var blob storage.Provider
	switch cfg.Storage.Provider {
	case "gcs":
		logger.Info("using GCS snapshot archive", zap.String("bucket", cfg.Storage.GCSBucket))
		blob, err = storage.NewGCSProvider(ctx, cfg.Storage.GCSBucket, logger)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
	case "noop":
		blob = &storage.NoOpProvider{}
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Storage.Provider)
	}

	var store BrandStore
	switch cfg.DB.Provider {
	case "postgres":
		logger.Info("connecting to PostgreSQL")
		store, err = postgres.NewBrandStore(ctx, postgres.BrandStoreConfig{DSN: cfg.DB.DSN})
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
	case "noop":
		store = &NoOpBrandStore{}
	default:
		return nil, fmt.Errorf("unknown db provider: %s", cfg.DB.Provider)
	}

	var events queue.Provider
	switch cfg.Queue.Provider {
	case "pubsub":
		logger.Info("connecting to GCP Pub/Sub", zap.String("topic", cfg.Queue.TopicID))
		events, err = queue.NewPubSubProvider(ctx, cfg.Queue.ProjectID, cfg.Queue.TopicID, logger)
		if err != nil {
			return nil, fmt.Errorf("init queue: %w", err)
		}
	case "noop":
		events = &queue.NoOpProvider{}
	default:
		return nil, fmt.Errorf("unknown queue provider: %s", cfg.Queue.Provider)
	}

	client := fetch.New(fetch.Config{
		UserAgent:   cfg.Insights.UserAgent,
		Timeout:     cfg.RequestTimeout(),
		Concurrency: cfg.Insights.Concurrency,
	}, logger)

	runner := pipeline.NewRunner(client, blob, events, pipeline.Config{
		MaxProducts:    cfg.Insights.MaxProducts,
		MaxFAQs:        cfg.Insights.MaxFAQs,
		MaxFAQPages:    cfg.Insights.MaxFAQPages,
		HeroCap:        cfg.Insights.HeroCap,
		MinPolicyBytes: cfg.Insights.MinPolicyBytes,
		ArchivePrefix:  cfg.Storage.Prefix,
	}, logger)

	return &App{
		Logger: logger,
		Config: cfg,
		Runner: runner,
		Store:  store,
		events: events,
	}, nil
}

// Close gracefully shuts down all services in the App container.
func (a *App) Close() {
	a.Store.Close()
	if err := a.events.Close(); err != nil {
		a.Logger.Warn("error closing queue client", zap.Error(err))
	}
	if err := a.Logger.Sync(); err != nil {
		// Best effort; stderr sync failures are expected on some platforms.
		_ = err
	}
}
