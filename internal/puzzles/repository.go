package puzzles

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("puzzle not found")
	ErrAlreadyExists     = errors.New("puzzle already exists")
	ErrAlreadyAssigned   = errors.New("puzzle already assigned")
	ErrNoCandidates      = errors.New("no unassigned puzzles found")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidGrid       = errors.New("invalid puzzle grid")
	ErrInvalidPuzzle     = errors.New("invalid puzzle")
)

// Repository is the catalog store. Implementations return ErrNotFound for missing ids.
type Repository interface {
	Get(ctx context.Context, id string) (*Puzzle, error)
	Insert(ctx context.Context, p *Puzzle) error
	List(ctx context.Context) ([]*Puzzle, error)
	ListVisible(ctx context.Context) ([]*Puzzle, error)
	// FindUnassigned returns at most limit unassigned puzzles of difficulty d in store order.
	FindUnassigned(ctx context.Context, d Difficulty, limit int) ([]*Puzzle, error)
	ListByVariation(ctx context.Context, variationNo int) ([]*Puzzle, error)
	// Assign publishes the puzzle only if it is currently unassigned
	// (ErrAlreadyAssigned otherwise).
	Assign(ctx context.Context, id string, at time.Time) error
	// Unpublish hides and unassigns the puzzle and clears assignedAt.
	Unpublish(ctx context.Context, id string) error
}
