package ratings

import (
	"context"
	"sync"

	"github.com/rickgao/smartbet/internal/elo"
)

// Memory keeps tables in process memory. Tables are copied on the way in
// and out so callers never share state with the store.
type Memory struct {
	mu     sync.RWMutex
	tables map[string]elo.Table
}

// NewMemory creates an empty in-memory persister.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string]elo.Table)}
}

// Load returns a copy of the sport's table.
func (m *Memory) Load(_ context.Context, sport string) (elo.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[sport]
	if !ok {
		return elo.Table{}, nil
	}
	return t.Clone(), nil
}

// Save replaces the sport's table with a copy of table.
func (m *Memory) Save(_ context.Context, sport string, table elo.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tables[sport] = table.Clone()
	return nil
}
