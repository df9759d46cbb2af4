package puzzles

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is the catalog filter key for puzzles.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty accepts easy, medium or hard (case-insensitive).
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
}

// Puzzle is the stored level document. ID is exposed as levelId.
type Puzzle struct {
	ID              string     `bson:"_id" json:"levelId"`
	Difficulty      Difficulty `bson:"difficulty" json:"difficulty"`
	VariationNo     int        `bson:"variationNo" json:"variationNo"`
	Grid            Grid       `bson:"puzzle" json:"puzzle"`
	Coins           int        `bson:"coins" json:"coins"`
	IsVisibleToUser bool       `bson:"isVisibleToUser" json:"isVisibleToUser"`
	IsAssigned      bool       `bson:"isAssigned" json:"isAssigned"`
	AssignedAt      *time.Time `bson:"assignedAt" json:"assignedAt"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
}

// Level is the public projection served to players.
type Level struct {
	LevelID    string     `json:"levelId"`
	Difficulty Difficulty `json:"difficulty"`
	Puzzle     Grid       `json:"puzzle"`
	Coins      int        `json:"coins"`
}

func (p *Puzzle) Level() Level {
	return Level{LevelID: p.ID, Difficulty: p.Difficulty, Puzzle: p.Grid, Coins: p.Coins}
}

func (p *Puzzle) clone() *Puzzle {
	c := *p
	if p.AssignedAt != nil {
		at := *p.AssignedAt
		c.AssignedAt = &at
	}
	c.Grid = p.Grid.Clone()
	return &c
}
