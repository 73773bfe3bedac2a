// Package persist provides store.Repository implementations: a SQLite
// key-value table for the desktop app and an in-memory repository for tests
// and ephemeral sessions. Both keep the durable state as one JSON document
// under StorageKey.
package persist

import (
	"encoding/json"
	"fmt"

	"github.com/chazu/roomkit/pkg/model"
	"github.com/chazu/roomkit/pkg/store"
)

// Compile-time interface checks.
var (
	_ store.Repository = (*SQLite)(nil)
	_ store.Repository = (*Memory)(nil)
)

// StorageKey is the key the durable session state is stored under.
const StorageKey = "room-design-storage"

func encode(state model.PersistedState) ([]byte, error) {
	if state.SavedDesigns == nil {
		state.SavedDesigns = []model.Design{}
	}
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("persist: encode state: %w", err)
	}
	return data, nil
}

func decode(data []byte) (model.PersistedState, error) {
	var state model.PersistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.PersistedState{}, fmt.Errorf("persist: decode state: %w", err)
	}
	if state.SavedDesigns == nil {
		state.SavedDesigns = []model.Design{}
	}
	return state, nil
}
