package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/models"
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// CalendarStatus is the public view of the calendar integration.
type CalendarStatus struct {
	Connected bool   `json:"connected"`
	Email     string `json:"email"`
}

// CreateIfAbsent persists a default user record unless one already exists for id.
// It reports created=false, without touching the stored document, for a repeat signup.
func (s *Service) CreateIfAbsent(ctx context.Context, id, email, name string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if err := s.repo.Insert(ctx, models.NewUser(id, strings.TrimSpace(email), strings.TrimSpace(name))); err != nil {
		// lost a race with a concurrent signup for the same id
		if errors.Is(err, ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Get returns ErrNotFound when the user does not exist.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *Service) CalendarStatus(ctx context.Context, id string) (*CalendarStatus, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	st := &CalendarStatus{Connected: u.CalendarConnected()}
	if u.Calendar != nil {
		st.Email = u.Calendar.Email
	}
	return st, nil
}

// ConnectCalendar stores the token record produced by the external OAuth exchange.
func (s *Service) ConnectCalendar(ctx context.Context, id, accessToken, refreshToken, email string) error {
	if strings.TrimSpace(accessToken) == "" {
		return fmt.Errorf("%w: accessToken is required", ErrInvalidInput)
	}
	return s.repo.SetCalendar(ctx, id, &models.CalendarIntegration{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Email:        email,
		ConnectedAt:  time.Now().UTC(),
	})
}

// DisconnectCalendar removes the calendar sub-record unconditionally.
func (s *Service) DisconnectCalendar(ctx context.Context, id string) error {
	return s.repo.UnsetCalendar(ctx, id)
}

// AddCoins adjusts the wallet balance stored on the user document.
func (s *Service) AddCoins(ctx context.Context, id string, delta int64) error {
	return s.repo.AddCoins(ctx, id, delta)
}

// IsAdmin reports whether the stored user carries the admin role. Unknown users are not admins.
func (s *Service) IsAdmin(ctx context.Context, id string) (bool, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return u.IsAdmin(), nil
}
