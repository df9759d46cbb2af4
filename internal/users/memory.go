package users

import (
	"context"
	"sync"
	"time"

	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/models"
)

// MemoryUserRepository keeps users in a map. Used with STORE_DRIVER=memory and in tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	store map[string]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{store: make(map[string]*models.User)}
}

// Get returns a copy so callers cannot mutate stored state.
func (m *MemoryUserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (m *MemoryUserRepository) Insert(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[u.ID]; ok {
		return ErrAlreadyExists
	}
	m.store[u.ID] = cloneUser(u)
	return nil
}

func (m *MemoryUserRepository) SetCalendar(ctx context.Context, id string, cal *models.CalendarIntegration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	c := *cal
	u.Calendar = &c
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryUserRepository) UnsetCalendar(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.store[id]; ok {
		u.Calendar = nil
	}
	return nil
}

func (m *MemoryUserRepository) AddCoins(ctx context.Context, id string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	u.Coins += delta
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.Calendar != nil {
		cal := *u.Calendar
		c.Calendar = &cal
	}
	return &c
}
