// internal/templates/memory.go
package templates

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a map-backed Store. It is the fallback when no database is
// configured and the store used by tests; contents are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	tpls map[string]Template
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tpls: make(map[string]Template)}
}

func (m *MemoryStore) Create(ctx context.Context, tpl *Template, force bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tpls[tpl.Name]; exists && !force {
		return ErrExists
	}
	if tpl.ID == uuid.Nil {
		tpl.ID = uuid.New()
	}
	m.tpls[tpl.Name] = cloneTemplate(*tpl)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, name string) (*Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tpl, ok := m.tpls[name]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneTemplate(tpl)
	return &out, nil
}

func (m *MemoryStore) List(ctx context.Context) ([]Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Template, 0, len(m.tpls))
	for _, tpl := range m.tpls {
		out = append(out, cloneTemplate(tpl))
	}
	return out, nil
}

// cloneTemplate copies the segment slice so callers cannot mutate stored
// state through a returned template.
func cloneTemplate(tpl Template) Template {
	segments := make([]string, len(tpl.Segments))
	copy(segments, tpl.Segments)
	tpl.Segments = segments
	return tpl
}
