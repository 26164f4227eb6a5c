// Package level holds the catalogue of per-level board classes. Each of
// the eight levels draws its hidden board from ten buckets; a bucket fixes
// the exact symbol counts and caps how many special squares the board may
// carry. The bucket weights make every bucket contribute equal prior mass:
// a board's weight is the inverse of its bucket's board count.
package level

// MinLevel and MaxLevel bound the valid level range.
const (
	MinLevel = 1
	MaxLevel = 8
)

// BucketsPerLevel is the number of board classes per level.
const BucketsPerLevel = 10

// Bucket describes one board class: exact symbol counts (bombs, ones,
// twos, threes) plus caps on special squares in total and per line.
type Bucket struct {
	Symbols           [4]int
	MaxSpecialTotal   int
	MaxSpecialPerLine int
}

// buckets[level][index]; level 0 is unused padding so that levels index
// directly.
var buckets = [MaxLevel + 1][BucketsPerLevel]Bucket{
	1: {
		{[4]int{6, 15, 3, 1}, 2, 2},
		{[4]int{6, 16, 0, 3}, 1, 1},
		{[4]int{6, 14, 5, 0}, 3, 2},
		{[4]int{6, 15, 2, 2}, 2, 2},
		{[4]int{6, 14, 4, 1}, 3, 2},
		{[4]int{6, 15, 3, 1}, 2, 2},
		{[4]int{6, 16, 0, 3}, 1, 1},
		{[4]int{6, 14, 5, 0}, 3, 2},
		{[4]int{6, 15, 2, 2}, 2, 2},
		{[4]int{6, 14, 4, 1}, 3, 2},
	},
	2: {
		{[4]int{7, 14, 1, 3}, 2, 1},
		{[4]int{7, 12, 6, 0}, 3, 2},
		{[4]int{7, 13, 3, 2}, 2, 1},
		{[4]int{7, 14, 0, 4}, 2, 1},
		{[4]int{7, 12, 5, 1}, 3, 2},
		{[4]int{7, 14, 1, 3}, 1, 1},
		{[4]int{7, 12, 6, 0}, 2, 2},
		{[4]int{7, 13, 3, 2}, 1, 1},
		{[4]int{7, 14, 0, 4}, 1, 1},
		{[4]int{7, 12, 5, 1}, 2, 2},
	},
	3: {
		{[4]int{8, 12, 2, 3}, 2, 1},
		{[4]int{8, 10, 7, 0}, 3, 2},
		{[4]int{8, 11, 4, 2}, 3, 2},
		{[4]int{8, 12, 1, 4}, 2, 1},
		{[4]int{8, 10, 6, 1}, 2, 3},
		{[4]int{8, 12, 2, 3}, 1, 1},
		{[4]int{8, 10, 7, 0}, 2, 2},
		{[4]int{8, 11, 4, 2}, 2, 2},
		{[4]int{8, 12, 1, 4}, 1, 1},
		{[4]int{8, 10, 6, 1}, 2, 2},
	},
	4: {
		{[4]int{8, 11, 3, 3}, 2, 3},
		{[4]int{8, 12, 0, 5}, 2, 1},
		{[4]int{10, 7, 8, 0}, 4, 3},
		{[4]int{10, 8, 5, 2}, 3, 2},
		{[4]int{10, 9, 2, 4}, 3, 2},
		{[4]int{8, 11, 3, 3}, 2, 2},
		{[4]int{8, 12, 0, 5}, 1, 1},
		{[4]int{10, 7, 8, 0}, 3, 3},
		{[4]int{10, 8, 5, 2}, 2, 2},
		{[4]int{10, 9, 2, 4}, 2, 2},
	},
	5: {
		{[4]int{10, 7, 7, 1}, 4, 3},
		{[4]int{10, 8, 4, 3}, 3, 2},
		{[4]int{10, 9, 1, 5}, 3, 2},
		{[4]int{10, 6, 9, 0}, 4, 3},
		{[4]int{10, 7, 6, 2}, 4, 3},
		{[4]int{10, 7, 7, 1}, 3, 3},
		{[4]int{10, 8, 4, 3}, 2, 2},
		{[4]int{10, 9, 1, 5}, 2, 2},
		{[4]int{10, 6, 9, 0}, 3, 3},
		{[4]int{10, 7, 6, 2}, 3, 3},
	},
	6: {
		{[4]int{10, 8, 3, 4}, 3, 2},
		{[4]int{10, 9, 0, 6}, 3, 2},
		{[4]int{10, 6, 8, 1}, 4, 3},
		{[4]int{10, 7, 5, 3}, 4, 3},
		{[4]int{10, 8, 2, 5}, 3, 2},
		{[4]int{10, 8, 3, 4}, 2, 2},
		{[4]int{10, 9, 0, 6}, 2, 2},
		{[4]int{10, 6, 8, 1}, 3, 3},
		{[4]int{10, 7, 5, 3}, 3, 3},
		{[4]int{10, 8, 2, 5}, 2, 2},
	},
	7: {
		{[4]int{10, 6, 7, 2}, 4, 3},
		{[4]int{10, 7, 4, 4}, 4, 3},
		{[4]int{13, 5, 1, 6}, 3, 2},
		{[4]int{13, 2, 9, 1}, 5, 4},
		{[4]int{10, 6, 6, 3}, 4, 3},
		{[4]int{10, 6, 7, 2}, 3, 3},
		{[4]int{10, 7, 4, 4}, 3, 3},
		{[4]int{13, 5, 1, 6}, 2, 2},
		{[4]int{13, 2, 9, 1}, 4, 4},
		{[4]int{10, 6, 6, 3}, 3, 3},
	},
	8: {
		{[4]int{10, 8, 0, 7}, 3, 2},
		{[4]int{10, 5, 8, 2}, 5, 4},
		{[4]int{10, 6, 5, 4}, 4, 3},
		{[4]int{10, 7, 2, 6}, 4, 3},
		{[4]int{10, 5, 7, 3}, 5, 4},
		{[4]int{10, 8, 0, 7}, 2, 2},
		{[4]int{10, 5, 8, 2}, 4, 4},
		{[4]int{10, 6, 5, 4}, 3, 3},
		{[4]int{10, 7, 2, 6}, 3, 3},
		{[4]int{10, 5, 7, 3}, 4, 4},
	},
}

// boardCounts[level][index] is the number of distinct full boards fitting
// the bucket, as computed by CountBoards. Row 0 is padding.
var boardCounts = [MaxLevel + 1][BucketsPerLevel]uint64{
	1: {1732660000, 81056200, 1407876600, 2598990000, 7039383000,
		1732660000, 81056200, 1407876600, 2598990000, 7039383000},
	2: {3245678400, 5722702400, 17146024000, 811419600, 34336214400,
		2684683200, 4495352000, 14348488000, 671170800, 26972112000},
	3: {34839212000, 12979316000, 145577634000, 17419606000, 81740052800,
		32177972000, 11677150400, 128566014000, 16088986000, 81740052800},
	4: {171421352000, 3483921200, 18355191900, 335965442400, 204113718000,
		171421352000, 3217797200, 17976411900, 331634822400, 199722318000},
	5: {146841535200, 559942404000, 81645487200, 13300405700, 513945373200,
		143811295200, 552724704000, 79888927200, 13159573700, 503339533200},
	6: {559942404000, 13607581200, 119703651300, 1027890746400, 335965442400,
		552724704000, 13314821200, 118436163300, 1006679066400, 331634822400},
	7: {478814605200, 1284863433000, 25901458800, 3265542000, 1117234078800,
		473744653200, 1258348833000, 25901458800, 3265542000, 1105404190800},
	8: {15998354400, 400990788900, 1675851118200, 513945373200, 1069308770400,
		15792134400, 394129278900, 1658106286200, 503339533200, 1051011410400},
}

// weights[level][index] = 1 / boardCounts[level][index].
var weights [MaxLevel + 1][BucketsPerLevel]float64

func init() {
	for lvl := MinLevel; lvl <= MaxLevel; lvl++ {
		for i := 0; i < BucketsPerLevel; i++ {
			weights[lvl][i] = 1.0 / float64(boardCounts[lvl][i])
		}
	}
}

// BucketAt returns the bucket for the given level and index. Panics on an
// out-of-range level or index; the catalogue is a closed table.
func BucketAt(lvl, index int) Bucket {
	if lvl < MinLevel || lvl > MaxLevel {
		panic("level: level out of range")
	}
	if index < 0 || index >= BucketsPerLevel {
		panic("level: bucket index out of range")
	}
	return buckets[lvl][index]
}

// Weight returns the prior weight of the given bucket.
func Weight(lvl, index int) float64 {
	if lvl < MinLevel || lvl > MaxLevel {
		panic("level: level out of range")
	}
	if index < 0 || index >= BucketsPerLevel {
		panic("level: bucket index out of range")
	}
	return weights[lvl][index]
}
