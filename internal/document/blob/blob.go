// Package blob abstracts opaque byte storage for document evidence. The core
// never interprets stored bytes; it writes exactly once per accepted upload
// and reads back by key.
package blob

import "context"

// Store is the opaque put/get contract.
type Store interface {
	// Put stores the blob under key and returns an access URL.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// URL returns an access URL for an existing key.
	URL(ctx context.Context, key string) (string, error)
	// Get reads the blob back.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the blob.
	Delete(ctx context.Context, key string) error
}
