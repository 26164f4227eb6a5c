package engine

import (
	"testing"

	"github.com/hailam/flipsolve/internal/grid"
	"github.com/hailam/flipsolve/internal/level"
)

// testBoard is a fully labelled level-1 board used as ground truth across
// the engine tests: 6 bombs, 15 ones, 3 twos, 1 three, and a bomb in
// every row and column so the special-square caps are trivially met.
var testBoard = [5][5]int{
	{0, 1, 1, 1, 2},
	{1, 0, 1, 2, 1},
	{1, 1, 0, 1, 0},
	{1, 2, 1, 0, 3},
	{1, 1, 1, 1, 0},
}

// boardConstraints derives the margins of a fully labelled board.
func boardConstraints(b *[5][5]int) Constraints {
	var cons Constraints
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if v := b[r][c]; v == 0 {
				cons.RowBombs[r]++
				cons.ColBombs[c]++
			} else {
				cons.RowSums[r] += v
				cons.ColSums[c] += v
			}
		}
	}
	return cons
}

// revealAll returns the state revealing every non-bomb cell of b.
func revealAll(b *[5][5]int) grid.Packed {
	var state grid.Packed
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if b[r][c] != 0 {
				state = state.Set(r, c, b[r][c])
			}
		}
	}
	return state
}

// scenario1 is the all-unrevealed level-1 scenario used throughout: the
// margins of the board "31010-11203-10110-11211-11101" (6 bombs, two 2s,
// two 3s), which fits level-1 buckets 3 and 8.
var scenario1 = Constraints{
	RowSums:  [5]int{5, 7, 3, 6, 4},
	ColSums:  [5]int{7, 4, 6, 3, 5},
	RowBombs: [5]int{2, 1, 2, 0, 1},
	ColBombs: [5]int{0, 1, 1, 2, 2},
}

func TestEnumerateBoardsSatisfyEverything(t *testing.T) {
	boards, counts, weights := EnumerateBoards(0, scenario1, 1)
	if len(boards) == 0 {
		t.Fatal("expected at least one consistent board")
	}
	if len(counts) != len(weights) {
		t.Fatalf("counts (%d) and weights (%d) disagree", len(counts), len(weights))
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	if total != len(boards) {
		t.Fatalf("group counts sum to %d but %d boards returned", total, len(boards))
	}

	for _, w := range weights {
		if w <= 0 {
			t.Fatalf("weight group with non-positive weight %g", w)
		}
	}

	for _, b := range boards {
		g := b.ToGrid()
		if got := boardConstraints(&g); got != scenario1 {
			t.Fatalf("board %v violates the margins: derived %+v", g, got)
		}
		if level.BoardWeight(&g, 1) <= 0 {
			t.Fatalf("board %v fits no level-1 bucket", g)
		}
	}
	t.Logf("scenario 1: %d boards in %d weight groups", len(boards), len(weights))
}

func TestEnumerateGroupsByWeight(t *testing.T) {
	boards, counts, weights := EnumerateBoards(0, scenario1, 1)
	// Walk the groups and confirm each board carries exactly the group's
	// weight.
	offset := 0
	for g, n := range counts {
		for _, b := range boards[offset : offset+n] {
			gg := b.ToGrid()
			if w := level.BoardWeight(&gg, 1); w != weights[g] {
				t.Fatalf("board in group %d has weight %g, group says %g", g, w, weights[g])
			}
		}
		offset += n
	}
}

func TestEnumerateRespectsReveals(t *testing.T) {
	cons := boardConstraints(&testBoard)
	state := grid.Packed(0).Set(3, 4, 3)

	boards, _, _ := EnumerateBoards(state, cons, 1)
	if len(boards) == 0 {
		t.Fatal("revealing a true cell must leave the true board possible")
	}
	for _, b := range boards {
		if b.Get(3, 4) != 3 {
			t.Fatalf("board %v contradicts the pinned reveal", b.ToGrid())
		}
	}

	// Pinning a lie removes the true board.
	lied := grid.Packed(0).Set(3, 4, 1)
	liedBoards, _, _ := EnumerateBoards(lied, cons, 1)
	truth := grid.FromGrid(&testBoard)
	for _, b := range liedBoards {
		if b == truth {
			t.Fatal("true board survived a contradicting reveal")
		}
	}
}

func TestEnumerateInconsistent(t *testing.T) {
	cons := Constraints{
		RowSums:  [5]int{15, 3, 3, 2, 2},
		ColSums:  [5]int{5, 5, 5, 5, 5},
		RowBombs: [5]int{0, 2, 2, 3, 3},
		ColBombs: [5]int{2, 2, 2, 2, 2},
	}
	// A row of five 3s exceeds every level-1 bucket's three count.
	boards, _, _ := EnumerateBoards(0, cons, 1)
	if len(boards) != 0 {
		t.Fatalf("expected no boards, got %d", len(boards))
	}
}

func TestEnumerateUniqueAfterFullReveal(t *testing.T) {
	cons := boardConstraints(&testBoard)
	state := revealAll(&testBoard)

	boards, _, _ := EnumerateBoards(state, cons, 1)
	if len(boards) != 1 {
		t.Fatalf("full reveal should pin the board, got %d boards", len(boards))
	}
	if boards[0] != grid.FromGrid(&testBoard) {
		t.Fatalf("wrong board survived: %v", boards[0].ToGrid())
	}
}
