package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hailam/flipsolve/internal/grid"
)

// errAborted propagates a cooperative Stop out of the recursion.
var errAborted = errors.New("engine: search aborted")

// stopPollDepth is the recursion depth at which workers poll the control
// channel. Polling every node costs real throughput; a fixed shallow
// depth keeps cancellation latency bounded by the work below it.
const stopPollDepth = 7

// BestValueEpsilon is the absolute tolerance for comparing square values
// when picking the best cell.
const BestValueEpsilon = 1e-5

// searcher is the per-job state of one expectimax descent. Each root job
// owns its searcher and board store; the memo map and channels are
// shared.
type searcher struct {
	cons  Constraints
	level int
	mode  Mode
	memo  *MemoMap
	store *BoardStore

	ctrl chan ControlMessage

	// Per-depth candidate buffers, reused across siblings.
	cells [maxDepth + 1][]cell

	// Disables the canonical-cell filter; only set by tests that
	// cross-check the pruned against the exhaustive value.
	noSymmetry bool
}

type cell struct {
	row, col int
	key      float64
}

// search values state at the given depth, descending the shared board
// store alongside. Returns errAborted when a Stop arrived.
func (s *searcher) search(depth int, state grid.Packed) (float64, error) {
	if v, ok := s.memo.Get(state); ok {
		return v, nil
	}

	if depth == stopPollDepth {
		if err := s.pollStop(); err != nil {
			return 0, err
		}
	}

	// Surviving the next move only needs depth 1 to be reached alive;
	// everything below that is a win by definition.
	if s.mode == ModeSurviveNextMove && depth >= 1 {
		return 1, nil
	}

	// The board filter is the expensive step; all cheaper exits run first.
	s.store.Descend(state, depth)

	if v, ok := s.terminalValue(state, depth); ok {
		return v, nil
	}

	// With enough boards left the sub-problem is expensive enough that a
	// permutation-equivalent cache hit pays for the probing.
	if s.store.Count(depth) >= 10 {
		if v, ok := probePermutations(state, s.cons, s.memo); ok {
			return v, nil
		}
	}

	acc := Accumulate(s.store, depth)
	s.collectCandidates(depth, state, &acc)

	best := 0.0
	bound := 1.0
	if s.mode == ModeCoins {
		// Walking away with the coins on the table is always an option.
		best = float64(state.Coins())
		bound = float64(s.store.MaxCoins(depth))
	}

	for _, cand := range s.cells[depth] {
		r, c := cand.row, cand.col

		expected := 0.0
		remaining := acc[r][c][1] + acc[r][c][2] + acc[r][c][3]

		for symbol := 1; symbol <= 3; symbol++ {
			p := acc[r][c][symbol]
			if p == 0 {
				continue
			}
			// The unexplored symbols can contribute at most the leftover
			// probability mass times the per-node payout bound.
			if expected+remaining*bound <= best {
				break
			}
			v, err := s.search(depth+1, state.Set(r, c, symbol))
			if err != nil {
				return 0, err
			}
			expected += v * p
			remaining -= p
		}

		if expected > best {
			best = expected
		}

		// A cell that cannot be a bomb is free information; nothing beats
		// it, and any symmetric cell would only tie. Threshold modes still
		// have to weigh which safe cell raises the count best.
		if !s.mode.Threshold() && acc[r][c][0] == 0 {
			break
		}
	}

	s.memo.Put(state, best)
	return best, nil
}

// terminalValue applies the mode's terminal rules to state.
func (s *searcher) terminalValue(state grid.Packed, depth int) (float64, bool) {
	switch s.mode {
	case ModeSurviveLevel:
		if state.AssignedCount() >= s.level {
			return 1, true
		}
	case ModeSurviveEight:
		if state.AssignedCount() >= 8 {
			return 1, true
		}
	}

	if !s.store.Terminal(state, depth) {
		return 0, false
	}

	// All 2s and 3s are uncovered: the game is won.
	switch s.mode {
	case ModeWinEight:
		// Winning with fewer than 8 cards on the table counts as a miss;
		// the mode deliberately discourages early wins.
		if state.AssignedCount() >= 8 {
			return 1, true
		}
		return 0, true
	case ModeSurviveLevel, ModeSurviveEight:
		// Won before the reveal threshold: no more cards to flip.
		return 0, true
	case ModeCoins:
		return float64(state.Coins()), true
	default:
		return 1, true
	}
}

// collectCandidates fills the depth's cell buffer with every unrevealed
// square worth trying, ordered so that safer and higher-scoring cells
// come first: ascending by 1024*P(bomb) - P(two) - P(three).
func (s *searcher) collectCandidates(depth int, state grid.Packed, acc *SymbolProbs) {
	cands := s.cells[depth][:0]
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if state.Get(r, c) != 0 {
				continue
			}
			// Cells that cannot pay out are only worth flipping when the
			// mode rewards the reveal count itself.
			if acc[r][c][2] == 0 && acc[r][c][3] == 0 && !s.mode.Threshold() {
				continue
			}
			if !s.noSymmetry && !canonicalCell(state, s.cons, r, c) {
				continue
			}
			cands = append(cands, cell{
				row: r,
				col: c,
				key: 1024*acc[r][c][0] - acc[r][c][2] - acc[r][c][3],
			})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].key < cands[j].key })
	s.cells[depth] = cands
}

// pollStop drains one pending control message. Anything but Stop during a
// running search is a protocol violation and fails fast.
func (s *searcher) pollStop() error {
	select {
	case msg, ok := <-s.ctrl:
		if !ok {
			panic("engine: control channel closed during search")
		}
		if _, isStop := msg.(Stop); !isStop {
			panic(fmt.Sprintf("engine: unexpected control message %T during search", msg))
		}
		// Echo the Stop so sibling jobs observe it too; the root drains
		// the echo once all jobs have come back.
		select {
		case s.ctrl <- Stop{}:
		default:
		}
		return errAborted
	default:
		return nil
	}
}
