package engine

import "github.com/hailam/flipsolve/internal/grid"

// maxDepth is the deepest reveal depth a search can reach: all 25 cells.
const maxDepth = 25

// BoardStore holds every board compatible with the states along the
// current search path, for all depths at once. A single flat array plus
// an index vector replaces per-depth containers: the slice
// boards[idx[d*W+g] : idx[d*W+g+1]] holds the depth-d boards of weight
// group g. Descending filters the parent slice into a fresh tail; on
// ascent nothing needs undoing because each depth owns its own range.
type BoardStore struct {
	boards  []grid.Packed
	idx     []int
	weights []float64
}

// NewBoardStore seeds depth 0 with the enumerated boards.
func NewBoardStore(boards []grid.Packed, counts []int, weights []float64) *BoardStore {
	w := len(weights)
	capHint := len(boards) * 2
	if capHint < 1024 {
		capHint = 1024
	}
	s := &BoardStore{
		boards:  make([]grid.Packed, len(boards), capHint),
		idx:     make([]int, w*(maxDepth+1)+1),
		weights: weights,
	}
	copy(s.boards, boards)

	index := 0
	for g, n := range counts {
		index += n
		s.idx[g+1] = index
	}
	return s
}

// Groups returns the number of weight groups.
func (s *BoardStore) Groups() int { return len(s.weights) }

// Weights returns the group weights. Shared, not copied; read-only.
func (s *BoardStore) Weights() []float64 { return s.weights }

// Count returns how many boards are live at the given depth.
func (s *BoardStore) Count(depth int) int {
	base := depth * len(s.weights)
	return s.idx[base+len(s.weights)] - s.idx[base]
}

// Slice returns the boards live at the given depth.
func (s *BoardStore) Slice(depth int) []grid.Packed {
	base := depth * len(s.weights)
	return s.boards[s.idx[base]:s.idx[base+len(s.weights)]]
}

// Group returns the depth-d boards of one weight group.
func (s *BoardStore) Group(depth, g int) []grid.Packed {
	base := depth * len(s.weights)
	return s.boards[s.idx[base+g]:s.idx[base+g+1]]
}

// Descend filters the boards of depth-1 into depth, keeping those still
// compatible with state. The store is first truncated to the end of the
// parent depth so sibling subtrees can recycle the space.
func (s *BoardStore) Descend(state grid.Packed, depth int) {
	w := len(s.weights)
	parent := (depth - 1) * w

	s.boards = s.boards[:s.idx[parent+w]]

	for g := 0; g < w; g++ {
		for _, b := range s.boards[s.idx[parent+g]:s.idx[parent+g+1]] {
			if grid.Compatible(b, state) {
				s.boards = append(s.boards, b)
			}
		}
		s.idx[parent+w+g+1] = len(s.boards)
	}
}

// Terminal reports whether no live board at the given depth still hides
// a 2 or 3 from state.
func (s *BoardStore) Terminal(state grid.Packed, depth int) bool {
	for _, b := range s.Slice(depth) {
		if grid.HasHiddenHigh(b, state) {
			return false
		}
	}
	return true
}

// MaxCoins returns the largest coin payout any live board at the given
// depth could still produce if fully revealed.
func (s *BoardStore) MaxCoins(depth int) int {
	best := 0
	for _, b := range s.Slice(depth) {
		if c := b.Coins(); c > best {
			best = c
		}
	}
	return best
}

// Clone copies the store for a root job. Every job mutates only its own
// copy; the weights stay shared.
func (s *BoardStore) Clone() *BoardStore {
	c := &BoardStore{
		boards:  make([]grid.Packed, len(s.boards), cap(s.boards)),
		idx:     make([]int, len(s.idx)),
		weights: s.weights,
	}
	copy(c.boards, s.boards)
	copy(c.idx, s.idx)
	return c
}
