package level

import "github.com/hailam/flipsolve/internal/grid"

// CountBoards returns the number of distinct full boards fitting the
// bucket. It factors the count instead of enumerating boards: for every
// bomb placement it counts, per number of special squares, the legal
// placements of the 2/3s onto special locations and multiplies with the
// arrangements of the remaining symbols.
//
// This is the computation behind the boardCounts table; it is far too slow
// to run per search but cheap enough to re-derive a table entry.
func CountBoards(b Bucket) uint64 {
	var c uint64

	for _, mask := range grid.Subsets(25, b.Symbols[0]) {
		bombs := grid.MaskToGrid(mask)
		csl := grid.CountSpecialLocationsBombs(&bombs)

		maxCS := b.MaxSpecialPerLine
		if b.MaxSpecialTotal > maxCS {
			maxCS = b.MaxSpecialTotal
		}
		if csl < maxCS {
			maxCS = csl
		}

		ways := make([]uint64, maxCS+1)
		for cs := 0; cs <= maxCS; cs++ {
			if b.Symbols[1]+cs < csl {
				// Not enough ones to fill the remaining special locations.
				continue
			}

			nonSpecial := b.Symbols
			nonSpecial[0] = 0
			nonSpecial[1] -= csl - cs

			for _, combo := range grid.Subsets(csl, cs) {
				var special [5][5]bool
				index := 0
				for r := 0; r < 5; r++ {
					for col := 0; col < 5; col++ {
						if grid.IsSpecialLocationBombs(&bombs, r, col) {
							if combo[index] {
								special[r][col] = true
							}
							index++
						}
					}
				}

				if grid.HasLine(&special, b.MaxSpecialPerLine+1) {
					continue
				}
				if grid.CountSet(&special) > b.MaxSpecialTotal {
					continue
				}
				ways[cs]++
			}

			for _, split := range grid.SplitMultiset(nonSpecial, cs, [4]bool{false, false, true, true}) {
				onSpecial, rest := split[0], split[1]
				ways23 := grid.Binomial(onSpecial[2]+onSpecial[3], onSpecial[2])
				c += grid.Multinomial(rest[:]) * ways23 * ways[cs]
			}
		}
	}

	return c
}
