// Package store holds pending OAuth verification contexts keyed by browser
// session.
package store

import (
	"context"
	"maps"
	"sync"
	"time"

	"authflow/internal/relier/schema"
	"authflow/internal/sentinel"
)

const DefaultTTL = 24 * time.Hour

type memoryEntry struct {
	params    schema.Params
	expiresAt time.Time
}

// Memory is an in-process verification context store.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Save replaces any pending context for sessionID.
func (m *Memory) Save(_ context.Context, sessionID string, params schema.Params) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sessionID] = memoryEntry{params: maps.Clone(params), expiresAt: m.now().Add(m.ttl)}
	return nil
}

// Take returns and removes the pending context for sessionID.
func (m *Memory) Take(_ context.Context, sessionID string) (schema.Params, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[sessionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	delete(m.entries, sessionID)
	if m.now().After(entry.expiresAt) {
		return nil, sentinel.ErrNotFound
	}
	return entry.params, nil
}
