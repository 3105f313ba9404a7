package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"authflow/internal/relier"
	"authflow/internal/relier/schema"
	dErrors "authflow/pkg/domain-errors"
)

// Static is an in-memory registry seeded with known clients. It backs local
// development and tests.
type Static struct {
	mu      sync.RWMutex
	clients map[string]Client
}

func NewStatic(clients ...Client) *Static {
	s := &Static{clients: make(map[string]Client, len(clients))}
	for _, c := range clients {
		s.clients[c.ID] = c
	}
	return s
}

// LoadStatic reads a JSON array of clients from path.
func LoadStatic(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read client registry seed: %w", err)
	}
	var clients []Client
	if err := json.Unmarshal(data, &clients); err != nil {
		return nil, fmt.Errorf("parse client registry seed: %w", err)
	}
	return NewStatic(clients...), nil
}

func (s *Static) Put(c Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ID] = c
}

// Get returns the client record for id.
func (s *Static) Get(id string) (Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	return c, ok
}

func (s *Static) GetClientInfo(_ context.Context, clientID string) (schema.Params, error) {
	c, ok := s.Get(clientID)
	if !ok {
		return nil, dErrors.InvalidParameter("client_id")
	}
	return c.Params(), nil
}

var _ relier.ClientRegistry = (*Static)(nil)
