package puzzles

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo keeps puzzles in insertion order, which stands in for the store's natural order.
type MemoryRepo struct {
	mu    sync.RWMutex
	order []string
	store map[string]*Puzzle
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*Puzzle)}
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*Puzzle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.store[id]; ok {
		return p.clone(), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) Insert(ctx context.Context, p *Puzzle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[p.ID]; ok {
		return ErrAlreadyExists
	}
	m.store[p.ID] = p.clone()
	m.order = append(m.order, p.ID)
	return nil
}

func (m *MemoryRepo) List(ctx context.Context) ([]*Puzzle, error) {
	return m.filter(0, func(*Puzzle) bool { return true }), nil
}

func (m *MemoryRepo) ListVisible(ctx context.Context) ([]*Puzzle, error) {
	return m.filter(0, func(p *Puzzle) bool { return p.IsVisibleToUser }), nil
}

func (m *MemoryRepo) FindUnassigned(ctx context.Context, d Difficulty, limit int) ([]*Puzzle, error) {
	return m.filter(limit, func(p *Puzzle) bool { return p.Difficulty == d && !p.IsAssigned }), nil
}

func (m *MemoryRepo) ListByVariation(ctx context.Context, variationNo int) ([]*Puzzle, error) {
	return m.filter(0, func(p *Puzzle) bool { return p.VariationNo == variationNo }), nil
}

func (m *MemoryRepo) Assign(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	if p.IsAssigned {
		return ErrAlreadyAssigned
	}
	p.IsAssigned = true
	p.IsVisibleToUser = true
	p.AssignedAt = &at
	return nil
}

func (m *MemoryRepo) Unpublish(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	p.IsVisibleToUser = false
	p.IsAssigned = false
	p.AssignedAt = nil
	return nil
}

// filter walks the store in insertion order; limit <= 0 means no limit.
func (m *MemoryRepo) filter(limit int, keep func(*Puzzle) bool) []*Puzzle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Puzzle{}
	for _, id := range m.order {
		p := m.store[id]
		if !keep(p) {
			continue
		}
		out = append(out, p.clone())
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
