package cache

import (
	"context"
	"sync"
)

// Memory is an in-process Set used by the embedded dev mode and tests.
type Memory struct {
	mu      sync.RWMutex
	members map[string]struct{}
}

// NewMemory creates an empty in-memory set.
func NewMemory() *Memory {
	return &Memory{members: make(map[string]struct{})}
}

func (m *Memory) Contains(_ context.Context, member string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.members[member]
	return ok, nil
}

func (m *Memory) Add(_ context.Context, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[member] = struct{}{}
	return nil
}
