package puzzles

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/metrics"
)

// CandidateWindow caps how many unassigned puzzles a random pick reads from the store.
//
// The pick is uniform over that window only, not over every unassigned puzzle: puzzles beyond
// the first CandidateWindow in store order are never picked until earlier ones get assigned.
const CandidateWindow = 10

// Service implements the puzzle catalog operations.
type Service struct {
	repo Repository
	now  func() time.Time
	intn func(n int) int
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
		intn: rand.IntN,
	}
}

// ListVisible returns the public projection of every visible puzzle.
func (s *Service) ListVisible(ctx context.Context) ([]Level, error) {
	list, err := s.repo.ListVisible(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Level, 0, len(list))
	for _, p := range list {
		if !p.IsVisibleToUser {
			continue
		}
		out = append(out, p.Level())
	}
	return out, nil
}

// PickRandomUnassigned chooses uniformly among at most CandidateWindow unassigned puzzles of
// the given difficulty. It does not assign the puzzle.
func (s *Service) PickRandomUnassigned(ctx context.Context, difficulty string) (*Puzzle, error) {
	d, err := ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	candidates, err := s.repo.FindUnassigned(ctx, d, CandidateWindow)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		metrics.PuzzlePicks.WithLabelValues(string(d), "empty").Inc()
		return nil, fmt.Errorf("%w for difficulty %s", ErrNoCandidates, d)
	}
	metrics.PuzzlePicks.WithLabelValues(string(d), "found").Inc()
	return candidates[s.intn(len(candidates))], nil
}

// ClaimRandom picks and assigns a random unassigned puzzle in one call. When a concurrent
// caller assigns the chosen candidate first, the remaining candidates are tried in random order.
func (s *Service) ClaimRandom(ctx context.Context, difficulty string) (*Puzzle, error) {
	d, err := ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}
	candidates, err := s.repo.FindUnassigned(ctx, d, CandidateWindow)
	if err != nil {
		return nil, err
	}
	for len(candidates) > 0 {
		i := s.intn(len(candidates))
		p := candidates[i]
		err := s.Assign(ctx, p.ID)
		if err == nil {
			return s.repo.Get(ctx, p.ID)
		}
		if !errors.Is(err, ErrAlreadyAssigned) && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		candidates[i] = candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]
	}
	metrics.PuzzlePicks.WithLabelValues(string(d), "empty").Inc()
	return nil, fmt.Errorf("%w for difficulty %s", ErrNoCandidates, d)
}

func (s *Service) ListByVariation(ctx context.Context, variationNo int) ([]*Puzzle, error) {
	return s.repo.ListByVariation(ctx, variationNo)
}

func (s *Service) Get(ctx context.Context, id string) (*Puzzle, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Puzzle, error) {
	return s.repo.List(ctx)
}

// Assign publishes an unassigned puzzle and stamps assignedAt.
func (s *Service) Assign(ctx context.Context, id string) error {
	err := s.repo.Assign(ctx, id, s.now())
	switch {
	case err == nil:
		metrics.PuzzleAssignments.WithLabelValues("assigned").Inc()
	case errors.Is(err, ErrAlreadyAssigned):
		metrics.PuzzleAssignments.WithLabelValues("conflict").Inc()
	case errors.Is(err, ErrNotFound):
		metrics.PuzzleAssignments.WithLabelValues("missing").Inc()
	}
	return err
}

// Unpublish hides and unassigns a puzzle. Repeating it on the same id succeeds.
func (s *Service) Unpublish(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Unpublish(ctx, id); err != nil {
		return err
	}
	metrics.PuzzleUnpublished.Inc()
	return nil
}

// Create validates a new puzzle and stores it hidden and unassigned. An empty ID is generated.
func (s *Service) Create(ctx context.Context, p *Puzzle) (*Puzzle, error) {
	d, err := ParseDifficulty(string(p.Difficulty))
	if err != nil {
		return nil, err
	}
	if p.Coins < 0 {
		return nil, fmt.Errorf("%w: coins must not be negative", ErrInvalidPuzzle)
	}
	if p.VariationNo < 0 {
		return nil, fmt.Errorf("%w: variationNo must not be negative", ErrInvalidPuzzle)
	}
	if err := p.Grid.Validate(); err != nil {
		return nil, err
	}
	id := strings.TrimSpace(p.ID)
	if id == "" {
		id = uuid.NewString()
	}
	stored := &Puzzle{
		ID:          id,
		Difficulty:  d,
		VariationNo: p.VariationNo,
		Grid:        p.Grid.Clone(),
		Coins:       p.Coins,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Insert(ctx, stored); err != nil {
		return nil, err
	}
	return stored, nil
}
