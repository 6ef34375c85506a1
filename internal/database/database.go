// Package database defines the interface for persisting scraped
// datasets. Using an interface decouples the pipeline from a specific
// database, so runs work against Postgres in production and a no-op or
// mock elsewhere.
package database

import (
	"context"

	"github.com/JakeFAU/forum-harvester/internal/forum"
)

// Provider is the persistence boundary for completed runs.
type Provider interface {
	// SaveDataset persists every table of a completed run atomically.
	SaveDataset(ctx context.Context, ds *forum.Dataset) error

	// Close terminates the database connection and releases resources.
	Close() error
}

// NoOpProvider is a database provider that performs no operations. It is
// useful for dry runs and tests where the in-memory dataset is enough.
type NoOpProvider struct{}

// SaveDataset for NoOpProvider does nothing and returns nil.
func (n *NoOpProvider) SaveDataset(_ context.Context, _ *forum.Dataset) error { return nil }

// Close for NoOpProvider does nothing and returns nil.
func (n *NoOpProvider) Close() error { return nil }
