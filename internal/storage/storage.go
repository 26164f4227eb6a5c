package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyRunSeq      = "run_seq"
	runKeyPrefix   = "run/"
)

// Preferences stores the solver settings that persist between sessions.
type Preferences struct {
	Mode     string    `json:"mode"`
	Threads  int       `json:"threads"`
	LastUsed time.Time `json:"last_used"`
}

// DefaultPreferences returns the out-of-the-box settings.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Mode:     "win",
		Threads:  4,
		LastUsed: time.Now(),
	}
}

// Stats aggregates over every recorded run.
type Stats struct {
	Runs         int            `json:"runs"`
	RunsByLevel  map[string]int `json:"runs_by_level"`
	RunsByMode   map[string]int `json:"runs_by_mode"`
	TotalSeconds float64        `json:"total_seconds"`
	TotalNodes   uint64         `json:"total_nodes"`
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{
		RunsByLevel: make(map[string]int),
		RunsByMode:  make(map[string]int),
	}
}

// RunRecord is one finished search.
type RunRecord struct {
	Puzzle  string    `json:"puzzle"`
	Level   int       `json:"level"`
	Mode    string    `json:"mode"`
	Value   float64   `json:"value"`
	Seconds float64   `json:"seconds"`
	Nodes   int       `json:"nodes"`
	When    time.Time `json:"when"`
}

// Storage wraps BadgerDB.
type Storage struct {
	db *badger.DB
}

// Open opens the database at the default platform location.
func Open() (*Storage, error) {
	dbDir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbDir)
}

// OpenAt opens the database in the given directory.
func OpenAt(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SavePreferences saves the solver settings.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastUsed = time.Now()

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPreferences), data)
	})
}

// LoadPreferences loads the solver settings, returning defaults if none
// were saved yet.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPreferences))
		if err == badger.ErrKeyNotFound {
			return nil // Use defaults
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})
	return prefs, err
}

// LoadStats loads the aggregate statistics, empty if none recorded.
func (s *Storage) LoadStats() (*Stats, error) {
	stats := NewStats()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})
	return stats, err
}

// RecordRun appends a run record and folds it into the statistics.
func (s *Storage) RecordRun(rec RunRecord) error {
	if rec.When.IsZero() {
		rec.When = time.Now()
	}

	stats, err := s.LoadStats()
	if err != nil {
		return err
	}
	stats.Runs++
	stats.RunsByLevel[fmt.Sprintf("%d", rec.Level)]++
	stats.RunsByMode[rec.Mode]++
	stats.TotalSeconds += rec.Seconds
	stats.TotalNodes += uint64(rec.Nodes)

	recData, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	statsData, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		seq := uint64(0)
		item, err := txn.Get([]byte(keyRunSeq))
		if err == nil {
			if err := item.Value(func(val []byte) error {
				if len(val) == 8 {
					seq = binary.BigEndian.Uint64(val)
				}
				return nil
			}); err != nil {
				return err
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		seq++

		var seqBuf [8]byte
		binary.BigEndian.PutUint64(seqBuf[:], seq)
		if err := txn.Set([]byte(keyRunSeq), seqBuf[:]); err != nil {
			return err
		}
		key := fmt.Sprintf("%s%016d", runKeyPrefix, seq)
		if err := txn.Set([]byte(key), recData); err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), statsData)
	})
}

// Runs returns the most recent n run records, newest first. n <= 0 means
// all of them.
func (s *Storage) Runs(n int) ([]RunRecord, error) {
	var recs []RunRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(runKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration needs a seek past the last possible run key.
		for it.Seek([]byte(runKeyPrefix + "~")); it.Valid(); it.Next() {
			if n > 0 && len(recs) >= n {
				break
			}
			var rec RunRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			recs = append(recs, rec)
		}
		return nil
	})
	return recs, err
}
