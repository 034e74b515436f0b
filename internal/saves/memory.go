package saves

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/napolitain/hamlet/internal/models"
)

// MemoryStore keeps snapshots in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]Snapshot
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]Snapshot)}
}

func (m *MemoryStore) Save(_ context.Context, slot string, state *models.GameState) (Snapshot, error) {
	snap, err := newSnapshot(slot, state, time.Now())
	if err != nil {
		return Snapshot{}, err
	}
	m.mu.Lock()
	m.slots[slot] = snap
	m.mu.Unlock()
	return snap, nil
}

func (m *MemoryStore) Load(_ context.Context, slot string) (Snapshot, error) {
	if err := ValidateSlot(slot); err != nil {
		return Snapshot{}, err
	}
	m.mu.RLock()
	snap, ok := m.slots[slot]
	m.mu.RUnlock()
	if !ok {
		return Snapshot{}, notFound(slot)
	}
	snap.State = snap.State.Clone()
	return snap, nil
}

func (m *MemoryStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.slots))
	for slot := range m.slots {
		out = append(out, slot)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
