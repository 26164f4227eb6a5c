// Package puzzle parses the textual puzzle format and loads puzzle
// corpora for benchmarking and validation.
//
// A puzzle line is 25 digits in 0..3 (optionally broken into groups by
// '-' or spaces), then the level digit: "31010-11203-10110-11211-11101 1".
// The grid is a fully labelled board with 0 meaning bomb; the margin
// constraints are derived by scanning it.
package puzzle

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/hailam/flipsolve/internal/engine"
	"github.com/hailam/flipsolve/internal/grid"
)

// Puzzle is one parsed corpus entry. State is the labelled grid packed as
// a state word; searches normally start from the empty state and use the
// label only as ground truth.
type Puzzle struct {
	Seq   int
	Raw   string
	Cons  engine.Constraints
	Level int
	State grid.Packed
}

// Parse decodes a single puzzle line into its margin constraints, level
// and packed grid.
func Parse(s string) (engine.Constraints, int, grid.Packed, error) {
	var cons engine.Constraints

	clean := strings.Map(func(r rune) rune {
		switch r {
		case '-', ' ', '\r':
			return -1
		}
		return r
	}, s)

	if len(clean) != 26 {
		return cons, 0, 0, fmt.Errorf("puzzle: want 25 grid digits and a level digit, got %d characters", len(clean))
	}

	var g [5][5]int
	for i := 0; i < 25; i++ {
		d := clean[i]
		if d < '0' || d > '3' {
			return cons, 0, 0, fmt.Errorf("puzzle: grid digit %q at position %d out of range 0..3", d, i)
		}
		g[i/5][i%5] = int(d - '0')
	}

	lvl := int(clean[25] - '0')
	if lvl < 1 || lvl > 8 {
		return cons, 0, 0, fmt.Errorf("puzzle: level %q out of range 1..8", clean[25])
	}

	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if v := g[r][c]; v == 0 {
				cons.RowBombs[r]++
				cons.ColBombs[c]++
			} else {
				cons.RowSums[r] += v
				cons.ColSums[c] += v
			}
		}
	}

	return cons, lvl, grid.FromGrid(&g), nil
}

// LoadCorpus reads one puzzle per line from path, numbering entries from 1.
// Blank lines are skipped.
func LoadCorpus(path string) ([]Puzzle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("puzzle: open corpus: %w", err)
	}
	defer f.Close()

	var puzzles []Puzzle
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cons, lvl, state, err := Parse(line)
		if err != nil {
			return nil, fmt.Errorf("puzzle: line %d: %w", lineNo, err)
		}
		puzzles = append(puzzles, Puzzle{
			Seq:   len(puzzles) + 1,
			Raw:   line,
			Cons:  cons,
			Level: lvl,
			State: state,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("puzzle: read corpus: %w", err)
	}
	return puzzles, nil
}
