// Package metadata is a small key/value store kept in the client's local
// SQLite database. The session credential is persisted here.
package metadata

import (
	"context"
)

// Repository stores opaque values under string keys.
//
// Get returns (nil, nil) when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
