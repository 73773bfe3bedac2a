package persist

import (
	"sync"

	"github.com/chazu/roomkit/pkg/model"
)

// Memory keeps the encoded state in memory. The zero value is an empty
// repository.
type Memory struct {
	mu    sync.Mutex
	data  []byte
	saves int

	// LoadErr and SaveErr, when set, are returned instead of touching the
	// stored document.
	LoadErr error
	SaveErr error
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{}
}

// Load decodes the stored document. An empty repository loads as an empty
// state.
func (m *Memory) Load() (model.PersistedState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return model.PersistedState{}, m.LoadErr
	}
	if m.data == nil {
		return model.PersistedState{SavedDesigns: []model.Design{}}, nil
	}
	return decode(m.data)
}

// Save encodes and stores state.
func (m *Memory) Save(state model.PersistedState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := encode(state)
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

// Raw returns the stored JSON document, or nil.
func (m *Memory) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// SetRaw replaces the stored document.
func (m *Memory) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
}

// Saves returns how many successful saves have happened.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
