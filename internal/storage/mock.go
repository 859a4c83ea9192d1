package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/story-locations/pkg/world"
)

// MockStorage is an in-memory implementation of Storage for testing.
// Worlds are held as snapshots so later changes to a saved registry are not seen.
type MockStorage struct {
	mu        sync.RWMutex
	worlds    map[uuid.UUID]world.Snapshot
	pingError error
	saveError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		worlds: make(map[uuid.UUID]world.Snapshot),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail on save with the given error
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveWorld(ctx context.Context, id uuid.UUID, reg *world.Registry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.worlds[id] = reg.Snapshot()
	return nil
}

func (m *MockStorage) LoadWorld(ctx context.Context, id uuid.UUID) (*world.Registry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.worlds[id]
	if !ok {
		return nil, nil
	}
	return world.FromSnapshot(s), nil
}

func (m *MockStorage) DeleteWorld(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.worlds, id)
	return nil
}

func (m *MockStorage) ListWorlds(ctx context.Context) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(m.worlds))
	for id := range m.worlds {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	return ids, nil
}
