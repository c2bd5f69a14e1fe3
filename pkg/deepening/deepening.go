// Package deepening drives the iterative deepening protocol: ask the engine
// for a plan of the provably minimal length, and on unsat step the length up
// by two, since feasible lengths all share the lower bound's parity.
//
// The controller never conflates answers. Unsat deepens, sat is verified
// before it is believed, and unknown (a timeout, a crash, a malformed reply)
// terminates the run as inconclusive without ever being treated as unsat.
package deepening

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swapbench/pkg/engine"
	"github.com/matzehuels/swapbench/pkg/errors"
	"github.com/matzehuels/swapbench/pkg/observability"
	"github.com/matzehuels/swapbench/pkg/perm"
	"github.com/matzehuels/swapbench/pkg/strategy"
)

// State is the controller's terminal verdict for one run.
type State string

// Terminal states. Querying is internal; a Result only ever carries one of
// these three.
const (
	// StateSolved means a verified plan of minimal feasible length was found.
	StateSolved State = "solved"
	// StateInconclusive means the run ended without an answer: an engine
	// timeout, a run budget expiry, or an engine failure.
	StateInconclusive State = "inconclusive"
	// StateRejected means the input permutation was invalid. No engine
	// query is ever issued for a rejected input.
	StateRejected State = "rejected"
)

// Query records one engine call of a run.
type Query struct {
	K       int
	Status  engine.Status
	Elapsed time.Duration
}

// Result is the terminal outcome of one deepening run.
type Result struct {
	State   State
	K       int       // plan length, meaningful only when solved
	Plan    perm.Plan // verified plan, only when solved
	Reason  string    // why the run ended, for inconclusive and rejected
	Err     error     // failure that ended the run, nil for clean timeouts
	Queries []Query   // every engine call, in order
	Elapsed time.Duration
}

// Solved reports whether the run found a verified plan.
func (r Result) Solved() bool { return r.State == StateSolved }

// Controller runs the deepening protocol against an engine. Multiple
// goroutines can share one Controller; it holds no per-run state.
type Controller struct {
	Engine  engine.Engine
	Timeout time.Duration // per-query engine budget, 0 means none
	Budget  time.Duration // whole-run budget, 0 means none
	Logger  *log.Logger
}

// NewController creates a controller for the given engine. A nil logger
// falls back to the package default.
func NewController(e engine.Engine, queryTimeout, runBudget time.Duration, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		Engine:  e,
		Timeout: queryTimeout,
		Budget:  runBudget,
		Logger:  logger,
	}
}

// Run solves one instance. The returned Result is always terminal: solved
// with a verified plan, rejected for invalid input, or inconclusive.
func (c *Controller) Run(ctx context.Context, p perm.Permutation, cfg strategy.Config) Result {
	start := time.Now()

	if err := p.Validate(); err != nil {
		return Result{
			State:   StateRejected,
			Reason:  errors.UserMessage(err),
			Err:     err,
			Elapsed: time.Since(start),
		}
	}

	// A sorted input is proven optimal by inspection.
	if p.IsSorted() {
		return Result{State: StateSolved, K: 0, Plan: perm.Plan{}, Elapsed: time.Since(start)}
	}

	if c.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Budget)
		defer cancel()
	}

	k := p.LowerBound()
	maxK := len(p) - 1 // any permutation of n sorts in at most n-1 swaps

	c.Logger.Debug("starting deepening run",
		"n", len(p),
		"strategy", cfg.Name,
		"lower_bound", k,
		"inversions", p.Inversions())
	observability.Solver().OnRunStart(ctx, cfg.Name, len(p))

	var queries []Query
	result := func(r Result) Result {
		r.Queries = queries
		r.Elapsed = time.Since(start)
		observability.Solver().OnRunComplete(ctx, cfg.Name, len(p), string(r.State), r.Elapsed)
		return r
	}

	for {
		if k > maxK {
			// Only an unsound engine can drive k past n-1.
			err := errors.New(errors.ErrCodeInternal,
				"engine rejected every feasible plan length up to %d for n=%d", maxK, len(p))
			return result(Result{State: StateInconclusive, Reason: err.Message, Err: err})
		}

		c.Logger.Debug("testing plan length", "k", k, "strategy", cfg.Name)
		observability.Solver().OnQueryStart(ctx, c.Engine.Name(), cfg.Name, len(p), k)

		outcome, err := c.Engine.Solve(ctx, engine.Request{
			Perm:     p,
			K:        k,
			Strategy: cfg,
			Timeout:  c.Timeout,
		})
		observability.Solver().OnQueryComplete(ctx, c.Engine.Name(), cfg.Name, len(p), k,
			string(outcome.Status), outcome.Elapsed, err)
		if err != nil {
			switch {
			case ctx.Err() == context.Canceled:
				return result(Result{
					State:  StateInconclusive,
					Reason: fmt.Sprintf("cancelled at k=%d", k),
					Err:    err,
				})
			case ctx.Err() != nil:
				// The run budget gave out mid-query: a clean timeout,
				// not a failure.
				return result(Result{
					State:  StateInconclusive,
					Reason: fmt.Sprintf("run budget exhausted at k=%d", k),
				})
			default:
				return result(Result{
					State:  StateInconclusive,
					Reason: fmt.Sprintf("engine failure at k=%d", k),
					Err:    err,
				})
			}
		}

		queries = append(queries, Query{K: k, Status: outcome.Status, Elapsed: outcome.Elapsed})

		switch outcome.Status {
		case engine.StatusSat:
			if err := c.verify(p, k, outcome.Plan, cfg); err != nil {
				return result(Result{State: StateInconclusive, Reason: err.Error(), Err: err})
			}
			c.Logger.Debug("solved", "k", k, "queries", len(queries), "elapsed", outcome.Elapsed)
			return result(Result{State: StateSolved, K: k, Plan: outcome.Plan})

		case engine.StatusUnsat:
			// Feasible lengths share the lower bound's parity; k+1 can
			// never be satisfiable when k was not.
			c.Logger.Debug("unsat, deepening", "k", k, "next", k+2)
			k += 2

		default:
			reason := outcome.Reason
			if reason == "" {
				reason = "engine gave up"
			}
			return result(Result{
				State:  StateInconclusive,
				Reason: fmt.Sprintf("%s at k=%d", reason, k),
			})
		}
	}
}

// verify never lets an unchecked engine answer through: the plan must have
// exactly the queried length and must actually sort the input.
func (c *Controller) verify(p perm.Permutation, k int, plan perm.Plan, cfg strategy.Config) error {
	if len(plan) != k {
		return &errors.ConsistencyError{
			Strategy: cfg.Name,
			K:        k,
			Detail:   fmt.Sprintf("plan has length %d", len(plan)),
		}
	}
	if err := plan.Validate(p); err != nil {
		return &errors.ConsistencyError{
			Strategy: cfg.Name,
			K:        k,
			Detail:   errors.UserMessage(err),
		}
	}
	return nil
}
