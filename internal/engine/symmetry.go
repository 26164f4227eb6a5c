package engine

import "github.com/hailam/flipsolve/internal/grid"

// Two lines form a group when revealing either of a pair of cells across
// them leads to sub-problems of equal value: same bomb count, same
// residual non-bomb sum under the current reveals, and an identical
// revealed/unrevealed pattern along the line. Only the canonical cell of
// each group needs searching.

// sameRowGroup reports whether rows r1 and r2 are interchangeable under
// state. The residual sums subtract revealed values directly; unrevealed
// cells read as 0, which is exactly why states must never contain bombs.
func sameRowGroup(state grid.Packed, cons Constraints, r1, r2 int) bool {
	if cons.RowBombs[r1] != cons.RowBombs[r2] {
		return false
	}
	rs1 := cons.RowSums[r1]
	rs2 := cons.RowSums[r2]
	for c := 0; c < 5; c++ {
		if (state.Get(r1, c) != 0) != (state.Get(r2, c) != 0) {
			return false
		}
		rs1 -= state.Get(r1, c)
		rs2 -= state.Get(r2, c)
	}
	return rs1 == rs2
}

// sameColGroup is sameRowGroup across columns.
func sameColGroup(state grid.Packed, cons Constraints, c1, c2 int) bool {
	if cons.ColBombs[c1] != cons.ColBombs[c2] {
		return false
	}
	rs1 := cons.ColSums[c1]
	rs2 := cons.ColSums[c2]
	for r := 0; r < 5; r++ {
		if (state.Get(r, c1) != 0) != (state.Get(r, c2) != 0) {
			return false
		}
		rs1 -= state.Get(r, c1)
		rs2 -= state.Get(r, c2)
	}
	return rs1 == rs2
}

// canonicalCell reports whether (row,col) is the representative of its
// row and column groups: no strictly later row shares its row group and
// no strictly later column shares its column group.
func canonicalCell(state grid.Packed, cons Constraints, row, col int) bool {
	for r := row + 1; r < 5; r++ {
		if sameRowGroup(state, cons, r, row) {
			return false
		}
	}
	for c := col + 1; c < 5; c++ {
		if sameColGroup(state, cons, c, col) {
			return false
		}
	}
	return true
}
