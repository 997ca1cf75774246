package memory

import (
	"context"
	"strings"
	"sync"
)

// BlobRepository is a process-local key/value store.
type BlobRepository struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewBlobRepository() *BlobRepository {
	return &BlobRepository{values: make(map[string][]byte)}
}

func (r *BlobRepository) Get(_ context.Context, key string) ([]byte, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (r *BlobRepository) Put(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[key] = append([]byte(nil), value...)
	return nil
}

func (r *BlobRepository) DeletePrefix(_ context.Context, prefix string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.values {
		if strings.HasPrefix(key, prefix) {
			delete(r.values, key)
		}
	}
	return nil
}
