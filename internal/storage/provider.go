// Package storage defines the blob storage provider used to archive raw
// page snapshots. The abstraction keeps the pipeline independent of the
// backing store (Google Cloud Storage, the local filesystem, or memory).
package storage

import (
	"context"
)

// Provider abstracts saving a blob under an object name.
type Provider interface {
	// Save uploads data to a specified object path/key in the blob store.
	Save(ctx context.Context, objectName string, data []byte) error
}

// NoOpProvider is a storage provider that performs no operations. It is
// useful for dry runs where pages are fetched but snapshots are not
// kept.
type NoOpProvider struct{}

// Save for NoOpProvider does nothing and always returns nil.
func (n *NoOpProvider) Save(_ context.Context, _ string, _ []byte) error {
	return nil
}
