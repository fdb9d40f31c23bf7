package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/lmarchant/dialogue-state/pkg/vars"
)

// MockStorage is an in-memory Storage implementation for tests. Documents
// round-trip through JSON so tests observe the same serialization behavior
// as the Redis-backed implementation.
type MockStorage struct {
	mu        sync.RWMutex
	documents map[uuid.UUID][]byte
	pingError error
}

var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates an empty mock storage.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		documents: make(map[uuid.UUID][]byte),
	}
}

// SetPingError configures the mock to fail health checks with err.
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error { return nil }

func (m *MockStorage) SaveDocument(ctx context.Context, id uuid.UUID, doc *vars.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[id] = data
	return nil
}

func (m *MockStorage) LoadDocument(ctx context.Context, id uuid.UUID) (*vars.Document, error) {
	m.mu.RLock()
	data, ok := m.documents[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var doc vars.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

func (m *MockStorage) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.documents, id)
	return nil
}

func (m *MockStorage) ListDocuments(ctx context.Context) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(m.documents))
	for id := range m.documents {
		ids = append(ids, id)
	}
	return ids, nil
}
