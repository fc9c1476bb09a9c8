// README: In-memory context store for tests and the demo binary.
package travelctx

import (
	"context"
	"encoding/json"
	"sync"

	"tripdesk/internal/types"
)

type MemoryStore struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, conversationID string) (*types.ContextState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.states[conversationID]
	if !ok {
		return nil, nil
	}
	var state types.ContextState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *MemoryStore) Save(_ context.Context, state *types.ContextState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.states[state.ConversationID] = raw
	s.mu.Unlock()
	return nil
}
