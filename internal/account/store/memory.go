// Package store records which permissions an account has consented to per
// client.
package store

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process seen-permissions store.
type Memory struct {
	mu   sync.RWMutex
	seen map[string][]string
}

func NewMemory() *Memory {
	return &Memory{seen: make(map[string][]string)}
}

// Seen returns the permissions uid has consented to for clientID.
func (m *Memory) Seen(_ context.Context, uid, clientID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.seen[key(uid, clientID)]), nil
}

// MarkSeen adds permissions to the consented set.
func (m *Memory) MarkSeen(_ context.Context, uid, clientID string, permissions []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(uid, clientID)
	current := m.seen[k]
	for _, p := range permissions {
		if !slices.Contains(current, p) {
			current = append(current, p)
		}
	}
	m.seen[k] = current
	return nil
}

func key(uid, clientID string) string {
	return "account:permissions:" + uid + ":" + clientID
}
