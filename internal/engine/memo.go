package engine

import (
	"sync"

	"github.com/hailam/flipsolve/internal/grid"
)

// memoShardCount trades lock contention against footprint. Power of two.
const memoShardCount = 256

// MemoMap caches the objective value of every finished search node, keyed
// by the packed state. It is shared by all search workers; the objective
// is deterministic, so racing inserts for the same key are idempotent up
// to floating-point addition order and the cache stays advisory. Entries
// are never evicted during a search; the driver clears the map when the
// constraints or the mode change.
type MemoMap struct {
	shards [memoShardCount]memoShard
}

type memoShard struct {
	mu sync.RWMutex
	m  map[grid.Packed]float64
}

// NewMemoMap sizes each shard for roughly capacity entries in total, so
// hard searches do not rehash mid-run.
func NewMemoMap(capacity int) *MemoMap {
	mm := &MemoMap{}
	perShard := capacity / memoShardCount
	if perShard < 16 {
		perShard = 16
	}
	for i := range mm.shards {
		mm.shards[i].m = make(map[grid.Packed]float64, perShard)
	}
	return mm
}

// shardOf spreads the 50 used bits over the shard index with a splitmix64
// finalizer; the raw low bits are heavily clustered.
func shardOf(key grid.Packed) uint64 {
	x := uint64(key)
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x & (memoShardCount - 1)
}

// Get returns the cached value for key.
func (mm *MemoMap) Get(key grid.Packed) (float64, bool) {
	s := &mm.shards[shardOf(key)]
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()
	return v, ok
}

// Put stores the value for key, overwriting any previous entry.
func (mm *MemoMap) Put(key grid.Packed, v float64) {
	s := &mm.shards[shardOf(key)]
	s.mu.Lock()
	s.m[key] = v
	s.mu.Unlock()
}

// Len returns the total number of cached entries.
func (mm *MemoMap) Len() int {
	n := 0
	for i := range mm.shards {
		s := &mm.shards[i]
		s.mu.RLock()
		n += len(s.m)
		s.mu.RUnlock()
	}
	return n
}

// Clear drops every entry. Only legal between searches.
func (mm *MemoMap) Clear() {
	for i := range mm.shards {
		s := &mm.shards[i]
		s.mu.Lock()
		clear(s.m)
		s.mu.Unlock()
	}
}

// Range calls fn for every entry until it returns false. Holds one shard
// lock at a time; concurrent writers to other shards are not blocked.
func (mm *MemoMap) Range(fn func(key grid.Packed, v float64) bool) {
	for i := range mm.shards {
		s := &mm.shards[i]
		s.mu.RLock()
		for k, v := range s.m {
			if !fn(k, v) {
				s.mu.RUnlock()
				return
			}
		}
		s.mu.RUnlock()
	}
}
