// Package memory provides a map-backed KV used by tests and throwaway sessions.
package memory

import (
	"context"
	"sync"

	"github.com/and161185/veriuser/internal/errs"
)

// KV keeps blobs in process memory.
type KV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New constructs an empty store.
func New() *KV { return &KV{data: make(map[string][]byte)} }

// Load returns a copy of the blob stored under key.
func (m *KV) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[key]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

// Save stores a copy of data under key.
func (m *KV) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}
