package ledger

import "time"

// GameRecord is one entry of a user's play history.
type GameRecord struct {
	ID              string     `bson:"_id"`
	UserID          string     `bson:"userId"`
	LevelID         string     `bson:"levelId"`
	Difficulty      string     `bson:"difficulty"`
	StartedAt       time.Time  `bson:"startedAt"`
	FinishedAt      *time.Time `bson:"finishedAt,omitempty"`
	Solved          bool       `bson:"solved"`
	Mistakes        int        `bson:"mistakes"`
	DurationSeconds int        `bson:"durationSeconds"`
	CoinsEarned     int64      `bson:"coinsEarned"`
}

// WalletRecord is one signed balance change of a user's wallet.
type WalletRecord struct {
	ID        string                 `bson:"_id"`
	UserID    string                 `bson:"userId"`
	Amount    int64                  `bson:"amount"`
	Reason    string                 `bson:"reason"`
	CreatedAt time.Time              `bson:"createdAt,omitempty"`
	Metadata  map[string]interface{} `bson:"metadata,omitempty"`
}

// GameRecordView is the client representation: timestamps are ISO-8601 strings or null.
type GameRecordView struct {
	ID              string  `json:"id"`
	LevelID         string  `json:"levelId"`
	Difficulty      string  `json:"difficulty"`
	StartedAt       *string `json:"startedAt"`
	FinishedAt      *string `json:"finishedAt"`
	Solved          bool    `json:"solved"`
	Mistakes        int     `json:"mistakes"`
	DurationSeconds int     `json:"durationSeconds"`
	CoinsEarned     int64   `json:"coinsEarned"`
}

// WalletRecordView is the client representation of a wallet record.
type WalletRecordView struct {
	ID        string                 `json:"id"`
	Amount    int64                  `json:"amount"`
	Reason    string                 `json:"reason"`
	CreatedAt *string                `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
}

func (r *GameRecord) View() GameRecordView {
	return GameRecordView{
		ID:              r.ID,
		LevelID:         r.LevelID,
		Difficulty:      r.Difficulty,
		StartedAt:       FormatTimestamp(r.StartedAt),
		FinishedAt:      FormatTimestampPtr(r.FinishedAt),
		Solved:          r.Solved,
		Mistakes:        r.Mistakes,
		DurationSeconds: r.DurationSeconds,
		CoinsEarned:     r.CoinsEarned,
	}
}

func (r *WalletRecord) View() WalletRecordView {
	v := WalletRecordView{
		ID:        r.ID,
		Amount:    r.Amount,
		Reason:    r.Reason,
		CreatedAt: FormatTimestamp(r.CreatedAt),
		Metadata:  map[string]interface{}{},
	}
	if r.Metadata != nil {
		v.Metadata = NormalizeValue(r.Metadata).(map[string]interface{})
	}
	return v
}
