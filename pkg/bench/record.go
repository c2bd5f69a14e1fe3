package bench

import (
	"time"

	"github.com/matzehuels/swapbench/pkg/deepening"
	"github.com/matzehuels/swapbench/pkg/perm"
)

// Status classifies the outcome of one benchmark run.
type Status string

const (
	// StatusSolved means the run produced a verified minimal plan.
	StatusSolved Status = "solved"
	// StatusTimeout means the run ended without an answer and without a
	// failure: the engine or the run budget gave out first.
	StatusTimeout Status = "timeout"
	// StatusError means the run failed: engine crash, malformed output,
	// or an inconsistent solution.
	StatusError Status = "error"
)

// Record is one (strategy, size, instance) benchmark measurement.
type Record struct {
	RunID    string
	Strategy string
	N        int
	Instance int              // index of the instance within its size
	Perm     perm.Permutation // the instance vector, shared across strategies
	K        int              // minimal plan length, meaningful only when solved
	Plan     perm.Plan        // verified plan, only when solved
	Elapsed  time.Duration
	Status   Status
	Err      error // terminal failure, only when Status is StatusError
}

// recordStatus maps a terminal controller state onto a record status.
// Inconclusive runs split on whether a failure ended them: a clean engine
// or budget timeout is a timeout, everything else is an error.
func recordStatus(res deepening.Result) Status {
	switch {
	case res.State == deepening.StateSolved:
		return StatusSolved
	case res.State == deepening.StateInconclusive && res.Err == nil:
		return StatusTimeout
	default:
		return StatusError
	}
}
