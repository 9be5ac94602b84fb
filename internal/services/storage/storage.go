// Package storage holds raw document bytes for intake sessions and
// submitted cases. The workflow only ever sees storage keys; lifecycle
// metadata lives on the session documents, not here.
package storage

import "context"

// Store is the blob store contract.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
