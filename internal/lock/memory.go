package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryLock is the single-process Locker used when no redis address is
// configured. Expired keys are reclaimed lazily on the next Lock call.
type MemoryLock struct {
	mu    sync.Mutex
	locks map[string]time.Time
}

func NewMemoryLock() *MemoryLock {
	return &MemoryLock{locks: make(map[string]time.Time)}
}

func (m *MemoryLock) Lock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, ok := m.locks[key]; ok && time.Now().Before(expiry) {
		return false, nil
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MemoryLock) Unlock(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.locks, key)
	return nil
}

func (m *MemoryLock) Close() error {
	return nil
}
