package ledger

import (
	"context"
	"slices"
	"sync"
)

// MemoryRepo keeps both ledgers in process. Records are copied on the way in and out.
type MemoryRepo struct {
	mu        sync.RWMutex
	games     []*GameRecord
	wallet    []*WalletRecord
	walletIDs map[string]struct{}
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{walletIDs: make(map[string]struct{})}
}

func (m *MemoryRepo) AppendGame(ctx context.Context, r *GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	if r.FinishedAt != nil {
		t := *r.FinishedAt
		cp.FinishedAt = &t
	}
	m.games = append(m.games, &cp)
	return nil
}

func (m *MemoryRepo) ListGames(ctx context.Context, userID string) ([]*GameRecord, error) {
	m.mu.RLock()
	out := []*GameRecord{}
	for _, r := range m.games {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	m.mu.RUnlock()
	slices.SortStableFunc(out, func(a, b *GameRecord) int { return b.StartedAt.Compare(a.StartedAt) })
	return out, nil
}

func (m *MemoryRepo) AppendWallet(ctx context.Context, r *WalletRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.walletIDs[r.ID]; ok {
		return ErrDuplicateRecord
	}
	m.walletIDs[r.ID] = struct{}{}
	cp := *r
	if r.Metadata != nil {
		cp.Metadata = make(map[string]interface{}, len(r.Metadata))
		for k, v := range r.Metadata {
			cp.Metadata[k] = v
		}
	}
	m.wallet = append(m.wallet, &cp)
	return nil
}

func (m *MemoryRepo) ListWallet(ctx context.Context, userID string, limit int) ([]*WalletRecord, error) {
	m.mu.RLock()
	out := []*WalletRecord{}
	for _, r := range m.wallet {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	m.mu.RUnlock()
	slices.SortStableFunc(out, func(a, b *WalletRecord) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
