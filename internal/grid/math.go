package grid

// Binomial returns n choose k using the multiplication formula, 0 for k > n.
// Exact as long as the result fits in a uint64.
func Binomial(n, k int) uint64 {
	if k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	ans := uint64(1)
	m := uint64(n)
	for j := uint64(1); j <= uint64(k); j++ {
		switch {
		case m%j == 0:
			ans *= m / j
		case ans%j == 0:
			ans = ans / j * m
		default:
			ans = ans * m / j
		}
		m--
	}
	return ans
}

// Multinomial returns the number of ways to color sum(counts) labelled
// places so that color i appears exactly counts[i] times.
func Multinomial(counts []int) uint64 {
	left := 0
	for _, n := range counts {
		left += n
	}
	r := uint64(1)
	for _, n := range counts {
		r *= Binomial(left, n)
		left -= n
	}
	return r
}

// Subsets enumerates all k-element subsets of n positions as boolean masks,
// in lexicographic order of the mask.
func Subsets(n, k int) [][]bool {
	r := make([][]bool, 0, int(Binomial(n, k)))
	subsetsHelper(k, make([]bool, n), 0, 0, &r)
	return r
}

func subsetsHelper(k int, current []bool, assigned, index int, v *[][]bool) {
	if assigned == k {
		mask := make([]bool, len(current))
		copy(mask, current)
		*v = append(*v, mask)
		return
	}
	if index >= len(current) {
		return
	}
	current[index] = false
	subsetsHelper(k, current, assigned, index+1, v)
	current[index] = true
	subsetsHelper(k, current, assigned+1, index+1, v)
	current[index] = false
}

// MaskToGrid spreads a length-25 mask over a 5x5 grid row-major.
func MaskToGrid(mask []bool) [5][5]bool {
	var g [5][5]bool
	for i := 0; i < 25; i++ {
		g[i/5][i%5] = mask[i]
	}
	return g
}

// HasLine reports whether some row or column of g contains at least k
// set cells.
func HasLine(g *[5][5]bool, k int) bool {
	for line := 0; line < 5; line++ {
		rc, cc := 0, 0
		for i := 0; i < 5; i++ {
			if g[line][i] {
				rc++
			}
			if g[i][line] {
				cc++
			}
		}
		if rc >= k || cc >= k {
			return true
		}
	}
	return false
}

// CountSet returns the number of set cells in g.
func CountSet(g *[5][5]bool) int {
	count := 0
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if g[r][c] {
				count++
			}
		}
	}
	return count
}

// IsSpecialLocation reports whether (r,c) of a full board sits in a row or
// column with no bombs. A 2 or 3 on such a location is a "special square"
// in the game's sense: a multiplier the margins alone cannot pin down.
func IsSpecialLocation(board *[5][5]int, r, c int) bool {
	bombsOnRow, bombsOnCol := false, false
	for i := 0; i < 5; i++ {
		if board[r][i] == Bomb {
			bombsOnRow = true
		}
		if board[i][c] == Bomb {
			bombsOnCol = true
		}
	}
	return !bombsOnRow || !bombsOnCol
}

// IsSpecialLocationBombs is IsSpecialLocation over a bomb bitset.
func IsSpecialLocationBombs(bombs *[5][5]bool, r, c int) bool {
	bombsOnRow, bombsOnCol := false, false
	for i := 0; i < 5; i++ {
		if bombs[r][i] {
			bombsOnRow = true
		}
		if bombs[i][c] {
			bombsOnCol = true
		}
	}
	return !bombsOnRow || !bombsOnCol
}

// CountSpecialLocationsBombs counts the special locations of a bomb bitset.
func CountSpecialLocationsBombs(bombs *[5][5]bool) int {
	count := 0
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if IsSpecialLocationBombs(bombs, r, c) {
				count++
			}
		}
	}
	return count
}

// CountSpecials returns the total number of special squares on a full
// board and the maximum number found in any single row or column.
func CountSpecials(board *[5][5]int) (total, perLine int) {
	var rows, cols [5]int
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			if (board[r][c] == Two || board[r][c] == Three) && IsSpecialLocation(board, r, c) {
				total++
				rows[r]++
				cols[c]++
			}
		}
	}
	for i := 0; i < 5; i++ {
		if rows[i] > perLine {
			perLine = rows[i]
		}
		if cols[i] > perLine {
			perLine = cols[i]
		}
	}
	return total, perLine
}

// CountSymbols tallies how often each symbol appears on a full board.
func CountSymbols(board *[5][5]int) [4]int {
	var count [4]int
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			count[board[r][c]]++
		}
	}
	return count
}

// SplitMultiset enumerates all ways to draw size symbols from avail into a
// first multiset, returning [first, remainder] pairs. Symbols with
// only[s] == false may not be drawn at all.
func SplitMultiset(avail [4]int, size int, only [4]bool) [][2][4]int {
	var v [][2][4]int
	splitHelper(&[4]int{}, 0, 0, only, avail, size, &v)
	return v
}

func splitHelper(current *[4]int, have, index int, only [4]bool, avail [4]int, size int, v *[][2][4]int) {
	if index == 4 {
		if have == size {
			opposite := avail
			for s := 0; s < 4; s++ {
				opposite[s] -= current[s]
			}
			*v = append(*v, [2][4]int{*current, opposite})
		}
		return
	}
	for c := 0; c <= avail[index]; c++ {
		if have+c <= size && (c == 0 || only[index]) {
			current[index] = c
			splitHelper(current, have+c, index+1, only, avail, size, v)
		}
	}
	current[index] = 0
}
