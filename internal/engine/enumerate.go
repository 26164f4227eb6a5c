package engine

import (
	"github.com/hailam/flipsolve/internal/grid"
	"github.com/hailam/flipsolve/internal/level"
)

// unassigned marks a cell the enumerator has not decided yet. Distinct
// from 0, which is a bomb on a full board.
const unassigned = 127

// EnumerateBoards runs the constraint solver: every full 5x5 board that
// matches the margins exactly, fits at least one bucket of the level, and
// agrees with the already revealed cells of state. Boards are grouped by
// their exact weight value; the return is the concatenation in group
// order, the per-group counts, and the group weights.
func EnumerateBoards(state grid.Packed, cons Constraints, lvl int) (boards []grid.Packed, counts []int, weights []float64) {
	var g [5][5]int
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if s := state.Get(r, c); s != 0 {
				g[r][c] = s
			} else {
				g[r][c] = unassigned
			}
		}
	}

	var groups []boardGroup
	enumerate(&g, 0, 0, cons, lvl, &groups)

	for _, grp := range groups {
		counts = append(counts, len(grp.boards))
		weights = append(weights, grp.weight)
		boards = append(boards, grp.boards...)
	}
	return boards, counts, weights
}

type boardGroup struct {
	weight float64
	boards []grid.Packed
}

func enumerate(g *[5][5]int, row, col int, cons Constraints, lvl int, groups *[]boardGroup) {
	if !feasibleSoFar(g, cons) {
		return
	}

	if row == 5 {
		weight := level.BoardWeight(g, lvl)
		if weight <= 0 {
			return
		}
		packed := grid.FromGrid(g)
		for i := range *groups {
			if (*groups)[i].weight == weight {
				(*groups)[i].boards = append((*groups)[i].boards, packed)
				return
			}
		}
		*groups = append(*groups, boardGroup{weight: weight, boards: []grid.Packed{packed}})
		return
	}

	next := 5*row + col + 1
	if g[row][col] == unassigned {
		for v := 0; v < 4; v++ {
			g[row][col] = v
			enumerate(g, next/5, next%5, cons, lvl, groups)
		}
		g[row][col] = unassigned
	} else {
		// Pinned by a revealed cell.
		enumerate(g, next/5, next%5, cons, lvl, groups)
	}
}

// feasibleSoFar prunes partial assignments by per-line bookkeeping. For a
// fully assigned line the margins must match exactly; otherwise the
// partial sum and bomb count must stay within the targets and the free
// squares must still be able to make up the remaining sum with values
// in 1..3.
func feasibleSoFar(g *[5][5]int, cons Constraints) bool {
	for row := 0; row < 5; row++ {
		if !lineFeasible(g[row][0], g[row][1], g[row][2], g[row][3], g[row][4],
			cons.RowSums[row], cons.RowBombs[row]) {
			return false
		}
	}
	for col := 0; col < 5; col++ {
		if !lineFeasible(g[0][col], g[1][col], g[2][col], g[3][col], g[4][col],
			cons.ColSums[col], cons.ColBombs[col]) {
			return false
		}
	}
	return true
}

func lineFeasible(a, b, c, d, e, targetSum, targetBombs int) bool {
	sum, bombs, ass := 0, 0, 0
	for _, v := range [5]int{a, b, c, d, e} {
		switch {
		case v >= 1 && v <= 3:
			sum += v
			ass++
		case v == 0:
			bombs++
			ass++
		}
	}

	if ass == 5 {
		return sum == targetSum && bombs == targetBombs
	}
	if sum > targetSum || bombs > targetBombs {
		return false
	}

	// Squares still owed to bombs.
	bn := targetBombs - bombs
	if ass+bn > 5 {
		return false
	}

	// Free squares for points, and the sum they must produce. Each free
	// square contributes at least 1 and at most 3.
	fs := 5 - ass - bn
	sn := targetSum - sum
	if sn < fs || sn > fs*3 {
		return false
	}
	return true
}
