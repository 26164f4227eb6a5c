// Package driver owns the long-lived search goroutine behind the host
// protocol: it receives configuration and Start/Stop commands on the
// control channel, runs searches, and emits reports. One driver serves
// one host; the host serialises updates by stopping (and awaiting the
// confirmation) before reconfiguring.
package driver

import (
	"github.com/rs/zerolog/log"

	"github.com/hailam/flipsolve/internal/engine"
	"github.com/hailam/flipsolve/internal/grid"
)

// DefaultCacheCapacity sizes the value cache for interactive use. Hard
// benchmark puzzles want far more; see the bench command.
const DefaultCacheCapacity = 1 << 20

// warmEntryMaxAssigned bounds which cache entries survive into the
// per-mode side caches between searches: only the shallow ones, which
// are the expensive ones to recompute.
const warmEntryMaxAssigned = 3

// Driver is the search side of the host protocol.
type Driver struct {
	ctrl    chan engine.ControlMessage
	reports chan engine.ReportMessage

	cache *engine.MemoMap
	// Shallow entries per mode, poured back in when the mode is active
	// again. Aborted searches keep their warm entries too.
	warm map[engine.Mode]map[grid.Packed]float64

	cons    engine.Constraints
	level   int
	state   grid.Packed
	mode    engine.Mode
	threads int

	haveCons    bool
	haveState   bool
	haveMode    bool
	haveThreads bool
}

// New creates a driver with its channels. The control channel is buffered
// so a Stop echoed by a search worker never blocks.
func New(cacheCapacity int) *Driver {
	return &Driver{
		ctrl:    make(chan engine.ControlMessage, 64),
		reports: make(chan engine.ReportMessage, 64),
		cache:   engine.NewMemoMap(cacheCapacity),
		warm:    make(map[engine.Mode]map[grid.Packed]float64),
	}
}

// Control returns the host-to-search channel.
func (d *Driver) Control() chan<- engine.ControlMessage { return d.ctrl }

// Reports returns the search-to-host channel.
func (d *Driver) Reports() <-chan engine.ReportMessage { return d.reports }

// Run is the driver loop; call it in its own goroutine. It only returns
// when the control channel is closed.
func (d *Driver) Run() {
	for msg := range d.ctrl {
		switch m := msg.(type) {
		case engine.Start:
			d.startSearch()

		case engine.Stop:
			// Not searching, so there is nothing to cancel; still confirm
			// so the host's stop handshake always completes.
			log.Debug().Msg("stop received while idle")
			d.reports <- engine.ConfirmStop{}

		case engine.SetConstraints:
			log.Debug().Int("level", m.Level).Msg("constraints replaced, caches cleared")
			d.cons = m.Cons
			d.level = m.Level
			d.haveCons = true
			d.cache.Clear()
			d.warm = make(map[engine.Mode]map[grid.Packed]float64)

		case engine.SetState:
			d.state = grid.FromGrid(&m.Grid)
			d.haveState = true

		case engine.SetMode:
			if !d.haveMode || d.mode != m.Mode {
				log.Debug().Stringer("mode", m.Mode).Msg("mode set, value cache cleared")
				d.cache.Clear()
				d.mode = m.Mode
				d.haveMode = true
			}

		case engine.SetThreads:
			if !d.haveThreads || d.threads != m.N {
				log.Debug().Int("threads", m.N).Msg("thread count set")
				d.threads = m.N
				d.haveThreads = true
			}

		default:
			log.Panic().Type("message", msg).Msg("unexpected control message while idle")
		}
	}
}

func (d *Driver) startSearch() {
	if !d.haveCons || !d.haveState || !d.haveMode || !d.haveThreads {
		log.Panic().
			Bool("constraints", d.haveCons).
			Bool("state", d.haveState).
			Bool("mode", d.haveMode).
			Bool("threads", d.haveThreads).
			Msg("start before full configuration")
	}

	// Rehydrate the cache with the mode's shallow entries from earlier
	// searches under the same constraints.
	for k, v := range d.warm[d.mode] {
		d.cache.Put(k, v)
	}

	log.Info().
		Stringer("mode", d.mode).
		Int("level", d.level).
		Int("threads", d.threads).
		Msg("starting search")

	result := engine.Search(d.state, d.cons, d.level, d.mode, d.threads, d.cache, d.ctrl, d.reports)

	switch result.Outcome {
	case engine.OutcomeSuccess:
		log.Info().
			Float64("value", result.Value).
			Float64("seconds", result.Seconds).
			Int("nodes", result.Nodes).
			Msg("search finished")
		d.reports <- engine.FinishedSuccessfully{
			Value:   result.Value,
			Seconds: result.Seconds,
			Nodes:   result.Nodes,
		}
	case engine.OutcomeTerminal:
		log.Info().Msg("root state is already terminal")
		d.reports <- engine.FinishedTerminalState{}
	case engine.OutcomeInconsistent:
		log.Info().Msg("puzzle has no consistent board")
		d.reports <- engine.FinishedInconsistent{}
	case engine.OutcomeAborted:
		log.Info().Msg("search aborted, confirming stop")
		d.reports <- engine.ConfirmStop{}
	}

	d.saveWarmEntries()
}

// saveWarmEntries copies the shallow cache entries into the current
// mode's side cache so the next search under this mode starts warm.
func (d *Driver) saveWarmEntries() {
	side := d.warm[d.mode]
	if side == nil {
		side = make(map[grid.Packed]float64, 16384)
		d.warm[d.mode] = side
	}
	d.cache.Range(func(key grid.Packed, v float64) bool {
		if key.AssignedCount() <= warmEntryMaxAssigned {
			side[key] = v
		}
		return true
	})
}
