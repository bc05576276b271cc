// Package storage defines the interfaces for a blob storage provider
// used to archive raw HTML snapshots fetched during a run. The
// abstraction keeps the pipeline independent of a specific backend.
package storage

import (
	"context"
)

// Provider defines the common interface for a blob storage provider.
type Provider interface {
	// Save uploads data to a specified object path/key in the blob store.
	Save(ctx context.Context, objectName string, data []byte) error
}

// NoOpProvider is a storage provider that performs no operations. It is
// used when snapshot archiving is disabled.
type NoOpProvider struct{}

// Save for NoOpProvider does nothing and always returns nil.
func (n *NoOpProvider) Save(_ context.Context, _ string, _ []byte) error {
	return nil
}
