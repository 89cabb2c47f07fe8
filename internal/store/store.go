package store

import "context"

// ArtifactStore abstracts the key/blob object store holding scanned form
// images (bucket root) and persisted extraction records (json/ prefix).
type ArtifactStore interface {
	// List returns all keys under prefix, in ascending key order.
	List(ctx context.Context, prefix string) ([]string, error)
	// Get returns the blob for key; common.ErrNotFound when absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put writes the blob under key, overwriting any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error
}
