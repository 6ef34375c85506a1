// Package queue defines the interface for publishing stored-post
// notifications so downstream consumers can react to completed scrapes.
// The abstraction keeps the application independent of a specific
// message queue implementation.
package queue

import (
	"context"
)

// Provider defines the common interface for a message queue.
type Provider interface {
	// Publish sends a notification that the post at postURL was stored
	// under runID. Implementations may be fire-and-forget.
	Publish(ctx context.Context, runID, postURL string) error

	// Close cleans up any client connections and resources.
	Close() error
}

// NoOpProvider is a queue provider that performs no operations. It is
// useful for running the harvester without a real message queue.
type NoOpProvider struct{}

// Publish for NoOpProvider does nothing and returns nil.
func (n *NoOpProvider) Publish(_ context.Context, _, _ string) error { return nil }

// Close for NoOpProvider does nothing and returns nil.
func (n *NoOpProvider) Close() error { return nil }
