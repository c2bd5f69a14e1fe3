// Package engine answers the fixed-length sorting question: can this
// permutation be sorted in exactly k swaps, each placing at least one value
// into its home position?
//
// Engines are decision procedures behind a single interface. The external
// [MiniZinc] adapter shells out to a constraint solver; the in-process
// [Native] engine runs a complete search with no external dependencies.
// Both honor the same contract:
//
//   - A sat outcome carries a plan that actually sorts the input. Callers
//     still verify it; engines are never trusted blindly.
//   - An unsat outcome is a proof of infeasibility for that exact k, not a
//     resource-limit artifact.
//   - Timeouts and resource exhaustion surface as unknown, never as unsat.
package engine

import (
	"context"
	"time"

	"github.com/matzehuels/swapbench/pkg/errors"
	"github.com/matzehuels/swapbench/pkg/perm"
	"github.com/matzehuels/swapbench/pkg/strategy"
)

// Status is the engine's answer for one (permutation, k) question.
type Status string

// Engine answers.
const (
	StatusSat     Status = "sat"
	StatusUnsat   Status = "unsat"
	StatusUnknown Status = "unknown"
)

// Request asks whether Perm sorts in exactly K swaps under the given
// search strategy. A zero Timeout means no per-call limit.
type Request struct {
	Perm     perm.Permutation
	K        int
	Strategy strategy.Config
	Timeout  time.Duration
}

// Outcome is the engine's verdict. Plan is populated only for StatusSat,
// Reason only for StatusUnknown. Nodes and Restarts are search statistics
// and stay zero when an engine does not report them.
type Outcome struct {
	Status   Status
	Plan     perm.Plan
	Elapsed  time.Duration
	Reason   string
	Nodes    int64
	Restarts int
}

// Engine is a decision procedure for fixed-length sorting plans.
//
// Solve blocks until the question is answered, the request timeout expires,
// or ctx is cancelled. Infrastructure failures (missing binary, crash,
// unparseable output) are returned as errors; a clean "ran out of time"
// is an Outcome with StatusUnknown and a nil error.
type Engine interface {
	Name() string
	Solve(ctx context.Context, req Request) (Outcome, error)
}

// Engine names accepted by New.
const (
	NameMiniZinc = "minizinc"
	NameNative   = "native"
)

// Options configures engine construction. Zero values select defaults.
type Options struct {
	MiniZincBinary string // minizinc executable, default "minizinc"
	Solver         string // backing solver passed to minizinc, default "gecode"
	Seed           uint64 // seed for randomized value orderings (native engine)
}

// New constructs the named engine.
func New(name string, opts Options) (Engine, error) {
	switch name {
	case NameMiniZinc:
		mz := NewMiniZinc()
		if opts.MiniZincBinary != "" {
			mz.Binary = opts.MiniZincBinary
		}
		if opts.Solver != "" {
			mz.Solver = opts.Solver
		}
		return mz, nil
	case NameNative:
		nv := NewNative()
		if opts.Seed != 0 {
			nv.Seed = opts.Seed
		}
		return nv, nil
	default:
		return nil, errors.New(errors.ErrCodeUnknownEngine,
			"unknown engine %q (known: %s, %s)", name, NameMiniZinc, NameNative)
	}
}

// validateRequest rejects requests no engine should ever see.
func validateRequest(req Request) error {
	if err := req.Perm.Validate(); err != nil {
		return err
	}
	if req.K < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "negative plan length %d", req.K)
	}
	return nil
}
