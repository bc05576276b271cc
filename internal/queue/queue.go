// Package queue defines the interfaces for publishing run-completed
// events. The abstraction keeps the service independent of a specific
// message broker.
package queue

import (
	"context"
)

// Provider defines the common interface for an event publisher.
type Provider interface {
	// Publish sends one serialized event to the configured topic.
	Publish(ctx context.Context, data []byte) error

	// Close cleans up any client connections and resources.
	Close() error
}

// NoOpProvider is a queue provider that performs no operations. It is
// used when event publishing is disabled.
type NoOpProvider struct{}

// Publish for NoOpProvider does nothing and returns nil.
func (n *NoOpProvider) Publish(_ context.Context, _ []byte) error { return nil }

// Close for NoOpProvider does nothing and returns nil.
func (n *NoOpProvider) Close() error { return nil }
