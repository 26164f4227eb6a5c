package engine

// SymbolProbs is the per-square probability of each symbol: [row][col]
// [bomb, one, two, three]. Rows sum to 1 whenever the board set is
// non-empty.
type SymbolProbs [5][5][4]float64

// Accumulate computes the symbol probabilities for the boards live at the
// given depth: each board adds its group weight to the symbol it shows on
// every square, then everything is normalised by the total weight (read
// off square (0,0), which every board assigns).
func Accumulate(store *BoardStore, depth int) SymbolProbs {
	var acc SymbolProbs

	weights := store.Weights()
	for g := 0; g < store.Groups(); g++ {
		w := weights[g]
		for _, b := range store.Group(depth, g) {
			for r := 0; r < 5; r++ {
				for c := 0; c < 5; c++ {
					acc[r][c][b.Get(r, c)] += w
				}
			}
		}
	}

	total := acc[0][0][0] + acc[0][0][1] + acc[0][0][2] + acc[0][0][3]
	if total == 0 {
		return acc
	}
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			for s := 0; s < 4; s++ {
				acc[r][c][s] /= total
			}
		}
	}
	return acc
}
