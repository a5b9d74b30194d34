package memory

import (
	"context"
	"sync"
)

// MemoryStorage: in-memory реализация storage.Storage
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string

	*SamplesMemoryStorage
	*ReportsMemoryStorage
}

// New создаёт пустой MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		values:               make(map[string]string),
		SamplesMemoryStorage: NewSamplesMemoryStorage(),
		ReportsMemoryStorage: NewReportsMemoryStorage(),
	}
}

func (m *MemoryStorage) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) SetMany(ctx context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// Close ничего не делает для памяти
func (m *MemoryStorage) Close() error {
	return nil
}
