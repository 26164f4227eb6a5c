// Package engine implements the decision core: enumerating the boards
// consistent with the margin constraints, turning them into per-square
// symbol probabilities, and running the memoized expectimax search that
// values every legal next reveal under the selected objective.
package engine

// Constraints are the known margins of a puzzle: per-line sums of the
// non-bomb values and per-line bomb counts.
type Constraints struct {
	RowSums  [5]int
	ColSums  [5]int
	RowBombs [5]int
	ColBombs [5]int
}

// Mode selects the search objective.
type Mode int

const (
	// ModeWinChance maximizes the probability of uncovering every 2 and 3.
	ModeWinChance Mode = iota
	// ModeWinEight additionally requires at least 8 revealed cards at the
	// moment of winning; winning earlier counts as zero.
	ModeWinEight
	// ModeSurviveNextMove minimizes the bomb risk of the single next reveal.
	ModeSurviveNextMove
	// ModeSurviveLevel maximizes the chance of surviving `level` reveals.
	ModeSurviveLevel
	// ModeSurviveEight maximizes the chance of surviving 8 reveals.
	ModeSurviveEight
	// ModeCoins maximizes the expected coin payout; stopping is allowed.
	ModeCoins
)

var modeNames = map[Mode]string{
	ModeWinChance:       "win",
	ModeWinEight:        "win-eight",
	ModeSurviveNextMove: "survive-next",
	ModeSurviveLevel:    "survive-level",
	ModeSurviveEight:    "survive-eight",
	ModeCoins:           "coins",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMode resolves a mode name as used on the command line.
func ParseMode(s string) (Mode, bool) {
	for m, name := range modeNames {
		if name == s {
			return m, true
		}
	}
	return 0, false
}

// Threshold reports whether the mode gates its payout on a revealed-card
// threshold. Threshold modes explore safe cells even when they cannot
// hold a 2 or 3.
func (m Mode) Threshold() bool {
	return m == ModeWinEight || m == ModeSurviveLevel || m == ModeSurviveEight
}

// ControlMessage is a host-to-search command. The host configures the
// search with SetConstraints/SetState/SetMode/SetThreads, then brackets
// runs with Start and Stop. During a running search only Stop is legal.
type ControlMessage interface{ controlMessage() }

// Start begins a search with the current configuration.
type Start struct{}

// Stop cancels a running search; the search answers with ConfirmStop.
type Stop struct{}

// SetConstraints replaces the margin constraints and level. Clears all
// caches: cached values depend on both.
type SetConstraints struct {
	Cons  Constraints
	Level int
}

// SetState replaces the reveal state (0 = unrevealed).
type SetState struct {
	Grid [5][5]int
}

// SetMode replaces the objective. Clears the value cache when it changes.
type SetMode struct {
	Mode Mode
}

// SetThreads bounds how many search jobs may recurse concurrently.
type SetThreads struct {
	N int
}

func (Start) controlMessage()          {}
func (Stop) controlMessage()           {}
func (SetConstraints) controlMessage() {}
func (SetState) controlMessage()       {}
func (SetMode) controlMessage()        {}
func (SetThreads) controlMessage()     {}

// ReportMessage is a search-to-host report. Per search, SquareSymbols
// precedes every SquareValue, every SquareValue precedes the terminal
// report, and exactly one terminal report is sent.
type ReportMessage interface{ reportMessage() }

// ConfirmStop acknowledges a Stop.
type ConfirmStop struct{}

// SquareSymbols carries the per-square symbol probabilities of the root.
type SquareSymbols struct {
	Probs SymbolProbs
}

// SquareValue carries the finished objective value of revealing one square.
type SquareValue struct {
	Row, Col int
	Value    float64
}

// FinishedSuccessfully closes a completed search.
type FinishedSuccessfully struct {
	Value   float64
	Seconds float64
	Nodes   int
}

// FinishedInconsistent reports that no board satisfies the constraints.
type FinishedInconsistent struct{}

// FinishedTerminalState reports that the root already satisfies the
// objective's win condition.
type FinishedTerminalState struct{}

func (ConfirmStop) reportMessage()           {}
func (SquareSymbols) reportMessage()         {}
func (SquareValue) reportMessage()           {}
func (FinishedSuccessfully) reportMessage()  {}
func (FinishedInconsistent) reportMessage()  {}
func (FinishedTerminalState) reportMessage() {}

// Outcome classifies how a search ended.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeInconsistent
	OutcomeTerminal
	OutcomeAborted
)

// Result is the root search summary.
type Result struct {
	Outcome Outcome
	Value   float64
	Seconds float64
	Nodes   int
}
