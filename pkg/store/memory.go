package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"fundmanager/pkg/models"
)

// MemoryStore is a map-backed Storage used in tests and as a zero-setup
// default. States are kept JSON-encoded so loads return independent copies,
// same as a real store would.
type MemoryStore struct {
	mu       sync.Mutex
	payloads map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payloads: make(map[string][]byte)}
}

func (m *MemoryStore) Load(partitionKey string) (*models.AppState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	payload, ok := m.payloads[partitionKey]
	if !ok {
		return nil, nil
	}
	var state models.AppState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("failed to decode state for %s: %w", partitionKey, err)
	}
	return &state, nil
}

func (m *MemoryStore) Save(partitionKey string, state *models.AppState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state for %s: %w", partitionKey, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads[partitionKey] = payload
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
