package grid

import "testing"

func TestBinomial(t *testing.T) {
	cases := []struct {
		n, k int
		want uint64
	}{
		{0, 0, 1},
		{5, 0, 1},
		{5, 5, 1},
		{5, 2, 10},
		{25, 6, 177100},
		{25, 10, 3268760},
		{4, 5, 0},
	}
	for _, tc := range cases {
		if got := Binomial(tc.n, tc.k); got != tc.want {
			t.Errorf("Binomial(%d,%d) = %d, want %d", tc.n, tc.k, got, tc.want)
		}
	}
}

func TestMultinomial(t *testing.T) {
	if got := Multinomial([]int{2, 1, 1}); got != 12 {
		t.Errorf("Multinomial(2,1,1) = %d, want 12", got)
	}
	// 25!/(6! 15! 3! 1!) over the full board.
	if got := Multinomial([]int{6, 15, 3, 1}); got != Binomial(25, 6)*Binomial(19, 15)*Binomial(4, 3) {
		t.Errorf("Multinomial over full board inconsistent: %d", got)
	}
}

func TestSubsets(t *testing.T) {
	subs := Subsets(5, 2)
	if len(subs) != 10 {
		t.Fatalf("Subsets(5,2) returned %d masks, want 10", len(subs))
	}
	seen := make(map[[5]bool]bool)
	for _, s := range subs {
		count := 0
		var key [5]bool
		for i, b := range s {
			if b {
				count++
			}
			key[i] = b
		}
		if count != 2 {
			t.Errorf("mask %v has %d set bits, want 2", s, count)
		}
		if seen[key] {
			t.Errorf("duplicate mask %v", s)
		}
		seen[key] = true
	}
}

func TestHasLine(t *testing.T) {
	var g [5][5]bool
	g[2][0], g[2][1], g[2][3] = true, true, true
	if !HasLine(&g, 3) {
		t.Error("row 2 holds 3 cells, HasLine(3) should be true")
	}
	if HasLine(&g, 4) {
		t.Error("no line holds 4 cells")
	}
	var h [5][5]bool
	for i := 0; i < 5; i++ {
		h[i][4] = true
	}
	if !HasLine(&h, 5) {
		t.Error("full column should satisfy HasLine(5)")
	}
}

func TestSpecials(t *testing.T) {
	// Bombs confined to rows 3 and 4, columns 0 and 4: every cell in
	// rows 0-2 is a special location via its row.
	board := [5][5]int{
		{1, 2, 1, 3, 1},
		{1, 1, 2, 1, 1},
		{1, 1, 1, 1, 1},
		{0, 1, 1, 1, 1},
		{1, 1, 1, 1, 0},
	}
	if !IsSpecialLocation(&board, 0, 1) {
		t.Error("(0,1) should be a special location")
	}
	if IsSpecialLocation(&board, 3, 4) {
		t.Error("(3,4) has bombs on both its row and column")
	}
	total, perLine := CountSpecials(&board)
	if total != 3 {
		t.Errorf("special total = %d, want 3", total)
	}
	if perLine != 2 {
		t.Errorf("special per line = %d, want 2", perLine)
	}
}

func TestCountSymbols(t *testing.T) {
	board := [5][5]int{
		{3, 1, 0, 1, 0},
		{1, 1, 2, 0, 3},
		{1, 0, 1, 1, 0},
		{1, 1, 2, 1, 1},
		{1, 1, 1, 0, 1},
	}
	count := CountSymbols(&board)
	want := [4]int{6, 15, 2, 2}
	if count != want {
		t.Errorf("CountSymbols = %v, want %v", count, want)
	}
}

func TestSplitMultiset(t *testing.T) {
	avail := [4]int{0, 2, 1, 1}
	splits := SplitMultiset(avail, 2, [4]bool{false, false, true, true})
	// Only 2s and 3s may enter the first multiset; the only way to draw
	// two of them is one of each.
	if len(splits) != 1 {
		t.Fatalf("got %d splits, want 1: %v", len(splits), splits)
	}
	first, rest := splits[0][0], splits[0][1]
	if first != [4]int{0, 0, 1, 1} {
		t.Errorf("first multiset = %v, want [0 0 1 1]", first)
	}
	if rest != [4]int{0, 2, 0, 0} {
		t.Errorf("remainder = %v, want [0 2 0 0]", rest)
	}

	// Totals are preserved across every split.
	for _, sp := range SplitMultiset([4]int{1, 2, 2, 1}, 3, [4]bool{true, true, true, true}) {
		for s := 0; s < 4; s++ {
			if sp[0][s]+sp[1][s] != [4]int{1, 2, 2, 1}[s] {
				t.Fatalf("split %v does not preserve symbol %d", sp, s)
			}
		}
	}
}

func TestMaskToGrid(t *testing.T) {
	mask := make([]bool, 25)
	mask[0], mask[7], mask[24] = true, true, true
	g := MaskToGrid(mask)
	if !g[0][0] || !g[1][2] || !g[4][4] {
		t.Errorf("mask spread wrong: %v", g)
	}
	if CountSet(&g) != 3 {
		t.Errorf("CountSet = %d, want 3", CountSet(&g))
	}
}
