package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/flipsolve/internal/driver"
	"github.com/hailam/flipsolve/internal/engine"
	"github.com/hailam/flipsolve/internal/puzzle"
	"github.com/hailam/flipsolve/internal/storage"
	"github.com/hailam/flipsolve/internal/validate"
)

// benchCacheCapacity sizes the value cache for benchmark runs. Hard
// puzzles fill caches in the hundred-million range; the map grows past
// this, the hint just avoids most of the rehashing.
const benchCacheCapacity = 1 << 24

var (
	solveFlag    = flag.String("solve", "", "solve a single puzzle string, e.g. \"31010-11203-10110-11211-11101 1\"")
	benchFlag    = flag.String("bench", "", "benchmark every puzzle in the given corpus file")
	validateFlag = flag.String("validate", "", "validate symbol probabilities against the given labelled corpus")
	modeFlag     = flag.String("mode", "", "objective: win, win-eight, survive-next, survive-level, survive-eight, coins (default: last used)")
	threadsFlag  = flag.Int("threads", 0, "concurrent search jobs (default: last used, else 4)")
	recordFlag   = flag.Bool("record", false, "record benchmark runs in the local database")
	debugFlag    = flag.Bool("debug", false, "verbose logging")
	cpuprofile   = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debugFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// CPU profiling via flag or environment, like the rest of the tooling.
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	// Unset mode/threads fall back to the saved preferences.
	prefs := storage.DefaultPreferences()
	prefsStore, err := storage.Open()
	if err != nil {
		log.Warn().Err(err).Msg("preference database unavailable, using defaults")
	} else {
		defer prefsStore.Close()
		if loaded, err := prefsStore.LoadPreferences(); err == nil {
			prefs = loaded
		}
	}

	modeName := *modeFlag
	if modeName == "" {
		modeName = prefs.Mode
	}
	mode, ok := engine.ParseMode(modeName)
	if !ok {
		log.Fatal().Str("mode", modeName).Msg("unknown mode")
	}

	threads := *threadsFlag
	if threads <= 0 {
		threads = prefs.Threads
	}
	if threads <= 0 {
		threads = runtime.NumCPU() - 2
		if threads < 1 {
			threads = 1
		}
	}

	if prefsStore != nil {
		prefs.Mode = mode.String()
		prefs.Threads = threads
		if err := prefsStore.SavePreferences(prefs); err != nil {
			log.Warn().Err(err).Msg("saving preferences failed")
		}
	}

	switch {
	case *solveFlag != "":
		solve(*solveFlag, mode, threads)
	case *benchFlag != "":
		var recordTo *storage.Storage
		if *recordFlag {
			if prefsStore == nil {
				log.Warn().Msg("run database unavailable, not recording")
			}
			recordTo = prefsStore
		}
		bench(*benchFlag, mode, threads, recordTo)
	case *validateFlag != "":
		runValidate(*validateFlag)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// solve runs one search from the empty reveal state through the full
// host protocol and prints the per-square values as they finish.
func solve(s string, mode engine.Mode, threads int) {
	cons, lvl, _, err := puzzle.Parse(s)
	if err != nil {
		log.Fatal().Err(err).Msg("bad puzzle")
	}

	d := driver.New(driver.DefaultCacheCapacity)
	go d.Run()

	d.Control() <- engine.SetConstraints{Cons: cons, Level: lvl}
	d.Control() <- engine.SetState{}
	d.Control() <- engine.SetMode{Mode: mode}
	d.Control() <- engine.SetThreads{N: threads}
	d.Control() <- engine.Start{}

	type squareValue struct {
		row, col int
		value    float64
	}
	var squares []squareValue

	for msg := range d.Reports() {
		switch m := msg.(type) {
		case engine.SquareSymbols:
			log.Info().Msg("symbol probabilities ready")
		case engine.SquareValue:
			fmt.Printf("square (%d,%d): %.6f\n", m.Row, m.Col, m.Value)
			squares = append(squares, squareValue{m.Row, m.Col, m.Value})
		case engine.FinishedSuccessfully:
			for _, sq := range squares {
				if sq.value > m.Value-engine.BestValueEpsilon {
					fmt.Printf("play (%d,%d)\n", sq.row, sq.col)
				}
			}
			fmt.Printf("best: %.6f (%.2fs, %d nodes)\n", m.Value, m.Seconds, m.Nodes)
			return
		case engine.FinishedInconsistent:
			log.Error().Msg("puzzle is inconsistent: no board satisfies the margins")
			os.Exit(1)
		case engine.FinishedTerminalState:
			fmt.Println("puzzle is already solved for this objective")
			return
		}
	}
}

// bench runs the corpus with a fresh cache per puzzle, a fixed mode and
// thread count, and the total wall time at the end.
func bench(path string, mode engine.Mode, threads int, store *storage.Storage) {
	puzzles, err := puzzle.LoadCorpus(path)
	if err != nil {
		log.Fatal().Err(err).Msg("loading corpus failed")
	}
	log.Info().Int("puzzles", len(puzzles)).Stringer("mode", mode).Int("threads", threads).
		Msg("benchmarking, this may take minutes or hours")

	cache := engine.NewMemoMap(benchCacheCapacity)
	total := 0.0

	for _, p := range puzzles {
		cache.Clear()

		ctrl := make(chan engine.ControlMessage, 64)
		reports := make(chan engine.ReportMessage, 64)
		done := make(chan struct{})
		go func() {
			for range reports {
			}
			close(done)
		}()

		result := engine.Search(0, p.Cons, p.Level, mode, threads, cache, ctrl, reports)
		close(reports)
		<-done

		if result.Outcome != engine.OutcomeSuccess {
			log.Warn().Int("puzzle", p.Seq).Int("outcome", int(result.Outcome)).
				Msg("puzzle did not finish successfully")
			continue
		}

		fmt.Printf("%v\n", result.Value)
		total += result.Seconds

		if store != nil {
			rec := storage.RunRecord{
				Puzzle:  p.Raw,
				Level:   p.Level,
				Mode:    mode.String(),
				Value:   result.Value,
				Seconds: result.Seconds,
				Nodes:   result.Nodes,
			}
			if err := store.RecordRun(rec); err != nil {
				log.Warn().Err(err).Msg("recording run failed")
			}
		}
	}

	log.Info().Float64("seconds", total).Msg("benchmark done")
}

func runValidate(path string) {
	puzzles, err := puzzle.LoadCorpus(path)
	if err != nil {
		log.Fatal().Err(err).Msg("loading corpus failed")
	}

	reports, err := validate.Run(puzzles)
	if err != nil {
		log.Fatal().Err(err).Msg("validation failed")
	}
	for _, rep := range reports {
		fmt.Printf("level %d (%d puzzles)\n", rep.Level, rep.Puzzles)
		fmt.Printf("  empirical: %v\n", rep.Empirical)
		fmt.Printf("  predicted: %v\n", rep.Predicted)
		fmt.Printf("  mean diff: %v\n", rep.Diff)
	}
}
