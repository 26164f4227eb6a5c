package engine

import (
	"math"
	"testing"

	"github.com/hailam/flipsolve/internal/grid"
)

// runRootSearch runs Search with fresh channels and returns the result
// plus every report emitted, in order.
func runRootSearch(t *testing.T, state grid.Packed, cons Constraints, lvl int, mode Mode, threads int, preload []ControlMessage) (Result, []ReportMessage) {
	t.Helper()

	ctrl := make(chan ControlMessage, 64)
	for _, m := range preload {
		ctrl <- m
	}
	reports := make(chan ReportMessage, 256)

	memo := NewMemoMap(1 << 20)
	result := Search(state, cons, lvl, mode, threads, memo, ctrl, reports)

	var got []ReportMessage
	for {
		select {
		case msg := <-reports:
			got = append(got, msg)
		default:
			return result, got
		}
	}
}

func TestRootWinChanceScenario1(t *testing.T) {
	result, reports := runRootSearch(t, 0, scenario1, 1, ModeWinChance, 4, nil)

	if result.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", result.Outcome)
	}
	if !(result.Value > 0 && result.Value < 1) {
		t.Errorf("win chance = %g, want within (0,1)", result.Value)
	}
	if result.Nodes <= 0 {
		t.Errorf("nodes = %d, want positive", result.Nodes)
	}

	if len(reports) == 0 {
		t.Fatal("no reports emitted")
	}
	if _, ok := reports[0].(SquareSymbols); !ok {
		t.Errorf("first report is %T, want SquareSymbols", reports[0])
	}
	for _, msg := range reports[1:] {
		if _, ok := msg.(SquareValue); !ok {
			t.Errorf("unexpected report %T after SquareSymbols", msg)
		}
	}

	// The best square value must equal the returned root value.
	best := 0.0
	for _, msg := range reports[1:] {
		if sv, ok := msg.(SquareValue); ok && sv.Value > best {
			best = sv.Value
		}
	}
	if math.Abs(best-result.Value) > 1e-12 {
		t.Errorf("best square value %g != root value %g", best, result.Value)
	}

	t.Logf("scenario 1 win chance: %.6f (%d nodes, %.2fs)", result.Value, result.Nodes, result.Seconds)
}

func TestRootSurviveNextMoveFormula(t *testing.T) {
	boards, counts, weights := EnumerateBoards(0, scenario1, 1)
	store := NewBoardStore(boards, counts, weights)
	acc := Accumulate(store, 0)

	want := 0.0
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if acc[r][c][2] > 0 || acc[r][c][3] > 0 {
				if p := 1 - acc[r][c][0]; p > want {
					want = p
				}
			}
		}
	}

	result, _ := runRootSearch(t, 0, scenario1, 1, ModeSurviveNextMove, 2, nil)
	if result.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", result.Outcome)
	}
	if math.Abs(result.Value-want) > 1e-9 {
		t.Errorf("survive-next value = %.12f, want %.12f", result.Value, want)
	}
}

func TestRootThreadCountAgreement(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the full scenario twice")
	}
	r1, _ := runRootSearch(t, 0, scenario1, 1, ModeWinChance, 1, nil)
	r8, _ := runRootSearch(t, 0, scenario1, 1, ModeWinChance, 8, nil)

	if r1.Outcome != OutcomeSuccess || r8.Outcome != OutcomeSuccess {
		t.Fatalf("outcomes = %v and %v, want success", r1.Outcome, r8.Outcome)
	}
	if math.Abs(r1.Value-r8.Value) > 1e-9 {
		t.Errorf("T=1 value %.12f and T=8 value %.12f disagree", r1.Value, r8.Value)
	}
}

func TestRootTerminalState(t *testing.T) {
	cons := boardConstraints(&testBoard)
	state := revealAll(&testBoard)

	result, reports := runRootSearch(t, state, cons, 1, ModeWinChance, 2, nil)
	if result.Outcome != OutcomeTerminal {
		t.Fatalf("outcome = %v, want terminal", result.Outcome)
	}
	// Symbol probabilities still precede the terminal determination.
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want just SquareSymbols", len(reports))
	}
	if _, ok := reports[0].(SquareSymbols); !ok {
		t.Fatalf("report is %T, want SquareSymbols", reports[0])
	}
}

func TestRootSurviveLevelAlreadyPastThreshold(t *testing.T) {
	cons := boardConstraints(&testBoard)
	state := grid.Packed(0).Set(0, 1, 1) // one reveal, level 1 threshold met

	result, _ := runRootSearch(t, state, cons, 1, ModeSurviveLevel, 2, nil)
	if result.Outcome != OutcomeTerminal {
		t.Fatalf("outcome = %v, want terminal", result.Outcome)
	}
}

func TestRootInconsistentPuzzle(t *testing.T) {
	cons := Constraints{
		RowSums:  [5]int{15, 3, 3, 2, 2},
		ColSums:  [5]int{5, 5, 5, 5, 5},
		RowBombs: [5]int{0, 2, 2, 3, 3},
		ColBombs: [5]int{2, 2, 2, 2, 2},
	}
	result, reports := runRootSearch(t, 0, cons, 1, ModeWinChance, 2, nil)
	if result.Outcome != OutcomeInconsistent {
		t.Fatalf("outcome = %v, want inconsistent", result.Outcome)
	}
	if len(reports) != 0 {
		t.Fatalf("inconsistent puzzle emitted %d reports", len(reports))
	}
}

func TestRootStopAborts(t *testing.T) {
	// Survive-eight recursion reaches depth 8 on every line from an
	// empty root, so the poll depth is always crossed and a pending Stop
	// is guaranteed to be seen.
	result, _ := runRootSearch(t, 0, scenario1, 1, ModeSurviveEight, 2, []ControlMessage{Stop{}})
	if result.Outcome != OutcomeAborted {
		t.Fatalf("outcome = %v, want aborted", result.Outcome)
	}
}

// TestConcurrentSearchRace stress-tests the shared cache under parallel
// root jobs. Run with -race.
func TestConcurrentSearchRace(t *testing.T) {
	iterations := 3
	if testing.Short() {
		iterations = 1
	}

	var first float64
	for i := 0; i < iterations; i++ {
		result, _ := runRootSearch(t, 0, scenario1, 1, ModeWinChance, 8, nil)
		if result.Outcome != OutcomeSuccess {
			t.Fatalf("iteration %d: outcome = %v", i, result.Outcome)
		}
		if i == 0 {
			first = result.Value
		} else if math.Abs(result.Value-first) > 1e-9 {
			t.Fatalf("iteration %d value %.12f drifts from %.12f", i, result.Value, first)
		}
	}
}

func TestRootCoinsMode(t *testing.T) {
	cons := boardConstraints(&testBoard)
	state := revealAll(&testBoard)
	for _, rc := range [][2]int{{0, 4}, {1, 3}, {3, 4}, {0, 1}} {
		state = state.Set(rc[0], rc[1], 0)
	}

	result, _ := runRootSearch(t, state, cons, 1, ModeCoins, 2, nil)
	if result.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", result.Outcome)
	}
	if result.Value <= 0 {
		t.Errorf("expected coins = %g, want positive", result.Value)
	}
	// Below every reveal the option to stop floors the child values, so
	// the root can never value below the sub-tree resign floor times the
	// survival mass of the best cell; a loose but telling lower bound is
	// simply that some cell beats half the current coins.
	if result.Value < float64(state.Coins())/2 {
		t.Errorf("expected coins %g implausibly low against %d on the table", result.Value, state.Coins())
	}
}
