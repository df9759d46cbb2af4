package puzzles

import "fmt"

// Size of a Sudoku board side.
const Size = 9

// MinGivens is the fewest filled cells a Sudoku with a unique solution can have.
const MinGivens = 17

// Grid holds the givens row by row; 0 marks an empty cell.
type Grid [][]int

func (g Grid) Clone() Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append([]int(nil), row...)
	}
	return out
}

// Validate checks shape, value range, that no digit repeats within a row, column or box, and
// that at least MinGivens cells are filled.
func (g Grid) Validate() error {
	if len(g) != Size {
		return fmt.Errorf("%w: want %d rows, got %d", ErrInvalidGrid, Size, len(g))
	}
	var rows, cols, boxes [Size]uint16
	for r, row := range g {
		if len(row) != Size {
			return fmt.Errorf("%w: row %d has %d cells", ErrInvalidGrid, r, len(row))
		}
		for c, v := range row {
			if v < 0 || v > 9 {
				return fmt.Errorf("%w: value %d at (%d,%d)", ErrInvalidGrid, v, r, c)
			}
			if v == 0 {
				continue
			}
			bit := uint16(1) << v
			b := (r/3)*3 + c/3
			if rows[r]&bit != 0 || cols[c]&bit != 0 || boxes[b]&bit != 0 {
				return fmt.Errorf("%w: duplicate %d at (%d,%d)", ErrInvalidGrid, v, r, c)
			}
			rows[r] |= bit
			cols[c] |= bit
			boxes[b] |= bit
		}
	}
	if n := g.Givens(); n < MinGivens {
		return fmt.Errorf("%w: %d givens, need at least %d", ErrInvalidGrid, n, MinGivens)
	}
	return nil
}

// Givens counts the filled cells.
func (g Grid) Givens() int {
	n := 0
	for _, row := range g {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}
