// Package validate cross-checks the symbol-probability predictions
// against a labelled corpus: over many puzzles of one level, the summed
// predicted probability mass per symbol should approach the empirical
// symbol counts of the hidden boards.
package validate

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/flipsolve/internal/engine"
	"github.com/hailam/flipsolve/internal/level"
	"github.com/hailam/flipsolve/internal/puzzle"
)

// Report is the per-level comparison. Diff is the mean per-puzzle gap
// between the predicted and the empirical mass of each symbol.
type Report struct {
	Level     int
	Puzzles   int
	Empirical [4]float64
	Predicted [4]float64
	Diff      [4]float64
}

// Run evaluates the corpus, one report per level that occurs in it.
// Puzzle predictions are independent, so they fan out across the CPUs.
func Run(puzzles []puzzle.Puzzle) ([]Report, error) {
	var reports []Report

	for lvl := level.MinLevel; lvl <= level.MaxLevel; lvl++ {
		var batch []puzzle.Puzzle
		for _, p := range puzzles {
			if p.Level == lvl {
				batch = append(batch, p)
			}
		}
		if len(batch) == 0 {
			continue
		}

		rep := Report{Level: lvl, Puzzles: len(batch)}

		// Empirical: each labelled board contributes exactly one symbol
		// per square.
		for _, p := range batch {
			for r := 0; r < 5; r++ {
				for c := 0; c < 5; c++ {
					rep.Empirical[p.State.Get(r, c)]++
				}
			}
		}

		// Predicted: root symbol probabilities from the margins alone.
		var mu sync.Mutex
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for _, p := range batch {
			p := p
			g.Go(func() error {
				boards, counts, weights := engine.EnumerateBoards(0, p.Cons, p.Level)
				store := engine.NewBoardStore(boards, counts, weights)
				acc := engine.Accumulate(store, 0)

				var local [4]float64
				for r := 0; r < 5; r++ {
					for c := 0; c < 5; c++ {
						for s := 0; s < 4; s++ {
							local[s] += acc[r][c][s]
						}
					}
				}
				mu.Lock()
				for s := 0; s < 4; s++ {
					rep.Predicted[s] += local[s]
				}
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for s := 0; s < 4; s++ {
			rep.Diff[s] = (rep.Predicted[s] - rep.Empirical[s]) / float64(len(batch))
		}
		reports = append(reports, rep)
	}

	return reports, nil
}
