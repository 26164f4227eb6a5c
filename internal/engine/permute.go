package engine

import "github.com/hailam/flipsolve/internal/grid"

// probePermutations looks the current state up in the cache under
// row/column swap equivalence. For every pair of rows with equal bomb
// margins it tries all 32 keep-masks of columns: kept columns must show
// the same revealed/unrevealed pattern in both rows, every non-kept
// column must be revealed in at least one of them. Swapping the two rows
// on the non-kept columns yields a state of equal value whenever the
// residual sums match; a cache hit there answers this node. Columns are
// handled by the same code on the transposed state.
//
// The construction leans on zero meaning unrevealed at every step; it
// must be audited if the packed encoding ever changes.
func probePermutations(state grid.Packed, cons Constraints, memo *MemoMap) (float64, bool) {
	if v, ok := probePermutedRows(state, cons.RowSums, cons.RowBombs, memo, false); ok {
		return v, true
	}
	return probePermutedRows(state.Transpose(), cons.ColSums, cons.ColBombs, memo, true)
}

func probePermutedRows(state grid.Packed, sums, bombs [5]int, memo *MemoMap, transposed bool) (float64, bool) {
	for r1 := 0; r1 < 5; r1++ {
		for r2 := r1 + 1; r2 < 5; r2++ {
			if bombs[r1] != bombs[r2] {
				continue
			}
			for keep := 0; keep < 32; keep++ {
				feasible := true
				for c := 0; c < 5; c++ {
					a1 := state.Get(r1, c) != 0
					a2 := state.Get(r2, c) != 0
					if keep>>c&1 == 1 {
						// Kept columns need a matching pattern.
						if a1 != a2 {
							feasible = false
							break
						}
					} else if !a1 && !a2 {
						// Nothing to swap on a doubly unrevealed column.
						feasible = false
						break
					}
				}
				if !feasible {
					continue
				}

				// Deassign the swap columns of both rows, then compare
				// the residual sums; unrevealed reads as zero.
				permuted := state
				for c := 0; c < 5; c++ {
					if keep>>c&1 == 0 {
						permuted = permuted.Set(r1, c, 0)
						permuted = permuted.Set(r2, c, 0)
					}
				}
				rs1, rs2 := sums[r1], sums[r2]
				for c := 0; c < 5; c++ {
					rs1 -= permuted.Get(r1, c)
					rs2 -= permuted.Get(r2, c)
				}
				if rs1 != rs2 {
					continue
				}

				// Swap the two rows on the deassigned columns.
				for c := 0; c < 5; c++ {
					if keep>>c&1 == 0 {
						permuted = permuted.Set(r1, c, state.Get(r2, c))
						permuted = permuted.Set(r2, c, state.Get(r1, c))
					}
				}

				key := permuted
				if transposed {
					key = permuted.Transpose()
				}
				if v, ok := memo.Get(key); ok {
					return v, true
				}
			}
		}
	}
	return 0, false
}
