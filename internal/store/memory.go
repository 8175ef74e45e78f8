package store

import (
	"context"
	"sync"
)

// MemoryBackend is an in-process Backend used by tests and the default for
// short-lived CLI invocations that don't need persistence.
type MemoryBackend struct {
	mu    sync.RWMutex
	data  map[Domain]map[Namespace]map[string][]byte
	usage map[Domain]int64
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data:  make(map[Domain]map[Namespace]map[string][]byte),
		usage: make(map[Domain]int64),
	}
}

func (m *MemoryBackend) Get(_ context.Context, d Domain, ns Namespace, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[d][ns][key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *MemoryBackend) Put(_ context.Context, d Domain, ns Namespace, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data[d] == nil {
		m.data[d] = make(map[Namespace]map[string][]byte)
	}
	if m.data[d][ns] == nil {
		m.data[d][ns] = make(map[string][]byte)
	}

	if prev, ok := m.data[d][ns][key]; ok {
		m.usage[d] -= int64(len(prev))
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[d][ns][key] = stored
	m.usage[d] += int64(len(stored))
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, d Domain, ns Namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.data[d][ns][key]; ok {
		m.usage[d] -= int64(len(prev))
		delete(m.data[d][ns], key)
	}
	return nil
}

func (m *MemoryBackend) List(_ context.Context, d Domain, ns Namespace) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]byte, len(m.data[d][ns]))
	for key, value := range m.data[d][ns] {
		copied := make([]byte, len(value))
		copy(copied, value)
		out[key] = copied
	}
	return out, nil
}

func (m *MemoryBackend) Usage(_ context.Context, d Domain) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.usage[d], nil
}

func (m *MemoryBackend) Clear(_ context.Context, d Domain) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, d)
	m.usage[d] = 0
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
