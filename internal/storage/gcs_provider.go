package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
)

// GCSProvider implements the storage.Provider interface for Google Cloud
// Storage.
type GCSProvider struct {
	client     *storage.Client
	bucketName string
	logger     *zap.Logger
}

// NewGCSProvider initializes a GCS client and verifies bucket access so
// misconfiguration fails at startup. Authentication uses Application
// Default Credentials.
func NewGCSProvider(ctx context.Context, bucketName string, logger *zap.Logger) (*GCSProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}

	if _, err := client.Bucket(bucketName).Attrs(ctx); err != nil {
		if cerr := client.Close(); cerr != nil {
			logger.Warn("close GCS client after bucket check failure", zap.Error(cerr))
		}
		return nil, fmt.Errorf("get GCS bucket %q attributes: %w", bucketName, err)
	}

	return &GCSProvider{client: client, bucketName: bucketName, logger: logger}, nil
}

// Save uploads the given data to an object in the GCS bucket.
func (g *GCSProvider) Save(ctx context.Context, objectName string, data []byte) error {
	wc := g.client.Bucket(g.bucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = "text/html; charset=utf-8"

	if _, err := wc.Write(data); err != nil {
		if cerr := wc.Close(); cerr != nil {
			g.logger.Warn("close GCS writer after write failure", zap.Error(cerr))
		}
		return fmt.Errorf("write GCS object %s: %w", objectName, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("finalize GCS object %s: %w", objectName, err)
	}
	return nil
}
