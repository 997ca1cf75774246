package blob

import "context"

// Repository is a flat key/value store of opaque values.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	DeletePrefix(ctx context.Context, prefix string) error
}
