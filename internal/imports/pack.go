package imports

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/puzzles"
)

// Entry is one puzzle of a pack. LevelID may be empty; the catalog then generates one.
type Entry struct {
	LevelID     string       `json:"levelId,omitempty"`
	Difficulty  string       `json:"difficulty"`
	VariationNo int          `json:"variationNo"`
	Puzzle      puzzles.Grid `json:"puzzle"`
	Coins       int          `json:"coins"`
}

// Pack is the JSON exchange format for bulk puzzle import and export.
type Pack struct {
	Puzzles []Entry `json:"puzzles"`
}

// ParsePack decodes a pack. An empty pack is an error.
func ParsePack(r io.Reader) (*Pack, error) {
	var p Pack
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode pack: %w", err)
	}
	if len(p.Puzzles) == 0 {
		return nil, fmt.Errorf("decode pack: no puzzles")
	}
	return &p, nil
}

// Snapshot builds a pack from catalog documents. Publication state is not carried.
func Snapshot(list []*puzzles.Puzzle) *Pack {
	p := &Pack{Puzzles: make([]Entry, 0, len(list))}
	for _, z := range list {
		p.Puzzles = append(p.Puzzles, Entry{
			LevelID:     z.ID,
			Difficulty:  string(z.Difficulty),
			VariationNo: z.VariationNo,
			Puzzle:      z.Grid,
			Coins:       z.Coins,
		})
	}
	return p
}

func (e Entry) puzzle() *puzzles.Puzzle {
	return &puzzles.Puzzle{
		ID:          e.LevelID,
		Difficulty:  puzzles.Difficulty(e.Difficulty),
		VariationNo: e.VariationNo,
		Grid:        e.Puzzle,
		Coins:       e.Coins,
	}
}
