package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/logger"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/metrics"
)

// WalletHistoryLimit caps how many wallet records a history read returns.
const WalletHistoryLimit = 50

// RewardReason tags wallet records credited for solving a level.
const RewardReason = "sudoku_reward"

// BalanceUpdater adjusts the coin balance kept on the user document.
type BalanceUpdater interface {
	AddCoins(ctx context.Context, userID string, delta int64) error
}

// Service reads and appends the per-user play and wallet ledgers.
type Service struct {
	repo     Repository
	balances BalanceUpdater
	now      func() time.Time
}

func NewService(repo Repository, balances BalanceUpdater) *Service {
	return &Service{
		repo:     repo,
		balances: balances,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// PlayHistory returns every game record of the user, newest first.
func (s *Service) PlayHistory(ctx context.Context, userID string) ([]GameRecordView, error) {
	records, err := s.repo.ListGames(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]GameRecordView, 0, len(records))
	for _, r := range records {
		out = append(out, r.View())
	}
	return out, nil
}

// WalletHistory returns the user's WalletHistoryLimit most recent wallet records, newest first.
func (s *Service) WalletHistory(ctx context.Context, userID string) ([]WalletRecordView, error) {
	records, err := s.repo.ListWallet(ctx, userID, WalletHistoryLimit)
	if err != nil {
		return nil, err
	}
	out := make([]WalletRecordView, 0, len(records))
	for _, r := range records {
		out = append(out, r.View())
	}
	return out, nil
}

// PlayInput describes one finished or abandoned game submitted by a player.
type PlayInput struct {
	LevelID         string
	Difficulty      string
	Coins           int
	StartedAt       time.Time
	FinishedAt      *time.Time
	Solved          bool
	Mistakes        int
	DurationSeconds int
}

type PlayResult struct {
	Record GameRecordView `json:"record"`
	Reward int64          `json:"reward"`
}

// RewardID is the wallet record id of the reward for userID solving levelID. Being fixed per
// pair, the store's unique _id lets at most one reward per level exist.
func RewardID(userID, levelID string) string {
	return "reward:" + userID + ":" + levelID
}

// RecordPlay appends a game record. The first solved game of a level credits its coins to the
// wallet; later or concurrent solves of the same level are recorded without a reward.
//
// The reward is claimed by inserting its wallet record under RewardID, then the game record
// and the balance follow. These writes are not transactional: a failure after the claim is
// logged and leaves the wallet entry in place.
func (s *Service) RecordPlay(ctx context.Context, userID string, in PlayInput) (*PlayResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || strings.TrimSpace(in.LevelID) == "" {
		return nil, fmt.Errorf("%w: userId and levelId are required", ErrInvalidInput)
	}
	if in.Mistakes < 0 || in.DurationSeconds < 0 || in.Coins < 0 {
		return nil, fmt.Errorf("%w: counts must not be negative", ErrInvalidInput)
	}
	now := s.now()
	if in.StartedAt.IsZero() {
		in.StartedAt = now
	}
	if in.Solved && in.FinishedAt == nil {
		in.FinishedAt = &now
	}

	var reward int64
	if in.Solved && in.Coins > 0 {
		claimed, err := s.claimReward(ctx, userID, in, now)
		if err != nil {
			return nil, err
		}
		if claimed {
			reward = int64(in.Coins)
		}
	}

	rec := &GameRecord{
		ID:              uuid.NewString(),
		UserID:          userID,
		LevelID:         in.LevelID,
		Difficulty:      in.Difficulty,
		StartedAt:       in.StartedAt.UTC(),
		FinishedAt:      in.FinishedAt,
		Solved:          in.Solved,
		Mistakes:        in.Mistakes,
		DurationSeconds: in.DurationSeconds,
		CoinsEarned:     reward,
	}
	if err := s.repo.AppendGame(ctx, rec); err != nil {
		if reward > 0 {
			logger.Errorf("ledger: reward for level %s claimed by user %s without a game record: %v", in.LevelID, userID, err)
		}
		return nil, err
	}

	if reward > 0 {
		if err := s.balances.AddCoins(ctx, userID, reward); err != nil {
			logger.Errorf("ledger: game %s rewarded in wallet but balance of user %s not updated: %v", rec.ID, userID, err)
			return nil, err
		}
		metrics.WalletCoinsCredited.Add(float64(reward))
	}
	return &PlayResult{Record: rec.View(), Reward: reward}, nil
}

// claimReward reports false when the level was already rewarded for the user.
func (s *Service) claimReward(ctx context.Context, userID string, in PlayInput, at time.Time) (bool, error) {
	err := s.repo.AppendWallet(ctx, &WalletRecord{
		ID:        RewardID(userID, in.LevelID),
		UserID:    userID,
		Amount:    int64(in.Coins),
		Reason:    RewardReason,
		CreatedAt: at,
		Metadata: map[string]interface{}{
			"levelId":     in.LevelID,
			"difficulty":  in.Difficulty,
			"completedAt": at,
		},
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrDuplicateRecord):
		return false, nil
	default:
		return false, err
	}
}
