package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/hailam/flipsolve/internal/grid"
)

// Search runs a full root search: enumerate the boards behind state,
// report the root symbol probabilities, value every candidate first
// reveal, and return the best. Each (square, symbol) pair becomes one
// job; a weighted semaphore of `threads` tokens bounds how many jobs
// recurse at once, and every job works on its own clone of the board
// store. The memo map and the channels are shared.
func Search(
	state grid.Packed,
	cons Constraints,
	lvl int,
	mode Mode,
	threads int,
	memo *MemoMap,
	ctrl chan ControlMessage,
	reports chan<- ReportMessage,
) Result {
	start := time.Now()

	boards, counts, weights := EnumerateBoards(state, cons, lvl)
	log.Debug().Int("boards", len(boards)).Int("groups", len(weights)).
		Msg("enumerated possible boards")

	if len(boards) == 0 {
		return Result{Outcome: OutcomeInconsistent}
	}

	store := NewBoardStore(boards, counts, weights)
	acc := Accumulate(store, 0)
	reports <- SquareSymbols{Probs: acc}

	if rootTerminal(state, store, mode, lvl) {
		log.Debug().Msg("root state already satisfies the objective")
		return Result{Outcome: OutcomeTerminal}
	}

	if threads < 1 {
		threads = 1
	}

	type job struct {
		row, col, symbol int
		state            grid.Packed
	}
	type jobResult struct {
		row, col, symbol int
		value            float64
		err              error
	}

	var jobs []job
	var jobsPerSquare [5][5]int
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if state.Get(r, c) != 0 {
				continue
			}
			if acc[r][c][2] == 0 && acc[r][c][3] == 0 && !mode.Threshold() {
				continue
			}
			for symbol := 1; symbol <= 3; symbol++ {
				if acc[r][c][symbol] == 0 {
					continue
				}
				jobs = append(jobs, job{r, c, symbol, state.Set(r, c, symbol)})
				jobsPerSquare[r][c]++
			}
		}
	}

	results := make(chan jobResult, len(jobs))
	tokens := semaphore.NewWeighted(int64(threads))

	var wg sync.WaitGroup
	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			// The pool cannot be cancelled from here; Stop reaches the
			// jobs through the control channel instead.
			_ = tokens.Acquire(context.Background(), 1)
			defer tokens.Release(1)

			s := &searcher{
				cons:  cons,
				level: lvl,
				mode:  mode,
				memo:  memo,
				store: store.Clone(),
				ctrl:  ctrl,
			}
			v, err := s.search(1, j.state)
			results <- jobResult{j.row, j.col, j.symbol, v, err}
		}(j)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var values [5][5]float64
	best := 0.0
	aborted := false

	for res := range results {
		if res.err != nil {
			aborted = true
			continue
		}
		r, c := res.row, res.col
		values[r][c] += res.value * acc[r][c][res.symbol]
		jobsPerSquare[r][c]--
		if jobsPerSquare[r][c] == 0 && !aborted {
			reports <- SquareValue{Row: r, Col: c, Value: values[r][c]}
			if values[r][c] > best {
				best = values[r][c]
			}
		}
	}

	if aborted {
		// One of the workers echoed the Stop back onto the control
		// channel; take it out so the driver starts the next search with
		// a clean channel.
		select {
		case <-ctrl:
		default:
		}
		return Result{Outcome: OutcomeAborted}
	}

	return Result{
		Outcome: OutcomeSuccess,
		Value:   best,
		Seconds: time.Since(start).Seconds(),
		Nodes:   memo.Len(),
	}
}

// rootTerminal checks the mode's win condition directly at the root.
func rootTerminal(state grid.Packed, store *BoardStore, mode Mode, lvl int) bool {
	switch mode {
	case ModeSurviveLevel:
		if state.AssignedCount() >= lvl {
			return true
		}
	case ModeSurviveEight:
		if state.AssignedCount() >= 8 {
			return true
		}
	}
	return store.Terminal(state, 0)
}
