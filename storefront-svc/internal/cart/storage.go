package cart

import (
	"context"
	"sync"
)

// Storage keys, mirroring what the storefront persists per session.
const (
	KeyCart          = "cart"
	KeyAppliedCoupon = "appliedCoupon"
)

// Storage is session-scoped key-value persistence. Get returns "" and no
// error for a missing key.
type Storage interface {
	Get(ctx context.Context, session, key string) (string, error)
	Set(ctx context.Context, session, key, value string) error
	Delete(ctx context.Context, session, key string) error
}

// MemoryStorage keeps values in process memory. The storefront binary always
// uses Redis; this backs handler and cart tests.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func memoryKey(session, key string) string {
	return session + ":" + key
}

func (m *MemoryStorage) Get(_ context.Context, session, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[memoryKey(session, key)], nil
}

func (m *MemoryStorage) Set(_ context.Context, session, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[memoryKey(session, key)] = value
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, session, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, memoryKey(session, key))
	return nil
}

var _ Storage = (*MemoryStorage)(nil)
