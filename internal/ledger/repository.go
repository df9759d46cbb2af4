package ledger

import (
	"context"
	"errors"
)

var (
	ErrInvalidInput = errors.New("invalid ledger input")
	// ErrDuplicateRecord is returned when a record id is already taken.
	ErrDuplicateRecord = errors.New("ledger record already exists")
)

// Repository stores the two append-only per-user ledgers.
type Repository interface {
	AppendGame(ctx context.Context, r *GameRecord) error
	// ListGames returns every record of the user, newest startedAt first.
	ListGames(ctx context.Context, userID string) ([]*GameRecord, error)
	// AppendWallet fails with ErrDuplicateRecord when r.ID is already stored.
	AppendWallet(ctx context.Context, r *WalletRecord) error
	// ListWallet returns at most limit records of the user, newest createdAt first.
	ListWallet(ctx context.Context, userID string, limit int) ([]*WalletRecord, error)
}
