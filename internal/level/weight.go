package level

import "github.com/hailam/flipsolve/internal/grid"

// Fits reports whether the fully assigned board belongs to the bucket:
// symbol counts match exactly and the special-square caps hold.
func (b Bucket) Fits(board *[5][5]int) bool {
	if grid.CountSymbols(board) != b.Symbols {
		return false
	}
	total, perLine := grid.CountSpecials(board)
	return total <= b.MaxSpecialTotal && perLine <= b.MaxSpecialPerLine
}

// BoardWeight sums the weights of every bucket of the level the board
// fits. Zero means the board cannot occur at this level.
func BoardWeight(board *[5][5]int, lvl int) float64 {
	weight := 0.0
	for i := 0; i < BucketsPerLevel; i++ {
		if buckets[lvl][i].Fits(board) {
			weight += weights[lvl][i]
		}
	}
	return weight
}
