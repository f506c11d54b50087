package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/skdtracker/internal/common"
)

type memoryEntry struct {
	state   State
	expires time.Time
}

// MemoryStore keeps sessions in process memory. Entries expire ttl after
// their last Save.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return State{}, common.ErrorNotFound
	}
	if m.now().After(e.expires) {
		delete(m.entries, id)
		return State{}, common.ErrorNotFound
	}
	return e.state, nil
}

func (m *MemoryStore) Save(_ context.Context, st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[st.ID] = memoryEntry{state: st, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}
