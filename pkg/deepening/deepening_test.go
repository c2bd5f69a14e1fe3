package deepening

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swapbench/pkg/engine"
	"github.com/matzehuels/swapbench/pkg/errors"
	"github.com/matzehuels/swapbench/pkg/perm"
	"github.com/matzehuels/swapbench/pkg/strategy"
)

// scriptedEngine answers each plan length from a fixed script and records
// the lengths it was asked about.
type scriptedEngine struct {
	script map[int]engine.Outcome
	err    error
	calls  []int
}

func (s *scriptedEngine) Name() string { return "scripted" }

func (s *scriptedEngine) Solve(ctx context.Context, req engine.Request) (engine.Outcome, error) {
	s.calls = append(s.calls, req.K)
	if s.err != nil {
		return engine.Outcome{}, s.err
	}
	out, ok := s.script[req.K]
	if !ok {
		return engine.Outcome{Status: engine.StatusUnsat}, nil
	}
	return out, nil
}

// blockingEngine waits for cancellation and reports it as a failure, the
// way a real adapter surfaces a cancelled context.
type blockingEngine struct{}

func (blockingEngine) Name() string { return "blocking" }

func (blockingEngine) Solve(ctx context.Context, req engine.Request) (engine.Outcome, error) {
	<-ctx.Done()
	return engine.Outcome{}, ctx.Err()
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func defaultStrategy(t *testing.T) strategy.Config {
	t.Helper()
	cfg, err := strategy.Lookup("default")
	if err != nil {
		t.Fatalf("Lookup(default) error: %v", err)
	}
	return cfg
}

func TestRunSolvesAtLowerBound(t *testing.T) {
	ctrl := NewController(engine.NewNative(), 0, 0, quietLogger())
	p := perm.Permutation{2, 3, 1, 5, 4}

	res := ctrl.Run(context.Background(), p, defaultStrategy(t))

	if res.State != StateSolved {
		t.Fatalf("State = %v, want %v (reason: %s, err: %v)", res.State, StateSolved, res.Reason, res.Err)
	}
	if want := p.LowerBound(); res.K != want {
		t.Errorf("K = %d, want %d", res.K, want)
	}
	if err := res.Plan.Validate(p); err != nil {
		t.Errorf("Plan.Validate() error: %v", err)
	}
	if len(res.Queries) != 1 {
		t.Fatalf("len(Queries) = %d, want 1", len(res.Queries))
	}
	if q := res.Queries[0]; q.K != 3 || q.Status != engine.StatusSat {
		t.Errorf("Queries[0] = {K:%d Status:%s}, want {K:3 Status:sat}", q.K, q.Status)
	}
}

func TestRunSortedInputSkipsEngine(t *testing.T) {
	eng := &scriptedEngine{}
	ctrl := NewController(eng, 0, 0, quietLogger())

	res := ctrl.Run(context.Background(), perm.Identity(6), defaultStrategy(t))

	if res.State != StateSolved {
		t.Fatalf("State = %v, want %v", res.State, StateSolved)
	}
	if res.K != 0 {
		t.Errorf("K = %d, want 0", res.K)
	}
	if len(res.Plan) != 0 {
		t.Errorf("len(Plan) = %d, want 0", len(res.Plan))
	}
	if len(eng.calls) != 0 {
		t.Errorf("engine was queried %d times for sorted input, want 0", len(eng.calls))
	}
}

func TestRunSingleTransposition(t *testing.T) {
	ctrl := NewController(engine.NewNative(), 0, 0, quietLogger())

	res := ctrl.Run(context.Background(), perm.Permutation{2, 1}, defaultStrategy(t))

	if res.State != StateSolved {
		t.Fatalf("State = %v, want %v", res.State, StateSolved)
	}
	if res.K != 1 {
		t.Errorf("K = %d, want 1", res.K)
	}
	want := perm.Plan{{A: 1, B: 2}}
	if len(res.Plan) != 1 || res.Plan[0] != want[0] {
		t.Errorf("Plan = %v, want %v", res.Plan, want)
	}
}

func TestRunDeepensByTwoOnUnsat(t *testing.T) {
	// Sorts [2,3,1,5,4] in five swaps, two of them wasted.
	longPlan := perm.Plan{
		{A: 1, B: 3}, {A: 2, B: 3}, {A: 4, B: 5}, {A: 1, B: 2}, {A: 1, B: 2},
	}
	eng := &scriptedEngine{script: map[int]engine.Outcome{
		3: {Status: engine.StatusUnsat},
		5: {Status: engine.StatusSat, Plan: longPlan},
	}}
	ctrl := NewController(eng, 0, 0, quietLogger())

	res := ctrl.Run(context.Background(), perm.Permutation{2, 3, 1, 5, 4}, defaultStrategy(t))

	if res.State != StateSolved {
		t.Fatalf("State = %v, want %v (reason: %s, err: %v)", res.State, StateSolved, res.Reason, res.Err)
	}
	if res.K != 5 {
		t.Errorf("K = %d, want 5", res.K)
	}
	wantCalls := []int{3, 5}
	if len(eng.calls) != len(wantCalls) {
		t.Fatalf("engine calls = %v, want %v", eng.calls, wantCalls)
	}
	for i, k := range wantCalls {
		if eng.calls[i] != k {
			t.Errorf("call %d queried k=%d, want k=%d", i, eng.calls[i], k)
		}
	}
}

func TestRunUnknownIsTerminal(t *testing.T) {
	eng := &scriptedEngine{script: map[int]engine.Outcome{
		3: {Status: engine.StatusUnknown, Reason: "time limit reached"},
	}}
	ctrl := NewController(eng, 0, 0, quietLogger())

	res := ctrl.Run(context.Background(), perm.Permutation{2, 3, 1, 5, 4}, defaultStrategy(t))

	if res.State != StateInconclusive {
		t.Fatalf("State = %v, want %v", res.State, StateInconclusive)
	}
	if res.Err != nil {
		t.Errorf("Err = %v, want nil for a clean timeout", res.Err)
	}
	if len(eng.calls) != 1 {
		t.Errorf("engine calls = %v, want exactly one; unknown must not deepen", eng.calls)
	}
	if !strings.Contains(res.Reason, "time limit reached") {
		t.Errorf("Reason = %q, want engine reason preserved", res.Reason)
	}
}

func TestRunRejectsInconsistentSolutions(t *testing.T) {
	tests := []struct {
		name string
		plan perm.Plan
	}{
		{
			name: "plan shorter than requested",
			plan: perm.Plan{{A: 1, B: 2}, {A: 1, B: 3}},
		},
		{
			name: "plan of right length that does not sort",
			plan: perm.Plan{{A: 1, B: 2}, {A: 1, B: 2}, {A: 1, B: 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := &scriptedEngine{script: map[int]engine.Outcome{
				3: {Status: engine.StatusSat, Plan: tt.plan},
			}}
			ctrl := NewController(eng, 0, 0, quietLogger())

			res := ctrl.Run(context.Background(), perm.Permutation{2, 3, 1, 5, 4}, defaultStrategy(t))

			if res.State != StateInconclusive {
				t.Fatalf("State = %v, want %v", res.State, StateInconclusive)
			}
			var ce *errors.ConsistencyError
			if !stderrors.As(res.Err, &ce) {
				t.Fatalf("Err = %v, want *errors.ConsistencyError", res.Err)
			}
			if ce.K != 3 {
				t.Errorf("ConsistencyError.K = %d, want 3", ce.K)
			}
			if ce.Strategy != "default" {
				t.Errorf("ConsistencyError.Strategy = %q, want %q", ce.Strategy, "default")
			}
		})
	}
}

func TestRunRejectsInvalidInput(t *testing.T) {
	eng := &scriptedEngine{}
	ctrl := NewController(eng, 0, 0, quietLogger())

	res := ctrl.Run(context.Background(), perm.Permutation{1, 1}, defaultStrategy(t))

	if res.State != StateRejected {
		t.Fatalf("State = %v, want %v", res.State, StateRejected)
	}
	if got := errors.GetCode(res.Err); got != errors.ErrCodeInvalidPermutation {
		t.Errorf("GetCode(Err) = %q, want %q", got, errors.ErrCodeInvalidPermutation)
	}
	if len(eng.calls) != 0 {
		t.Errorf("engine was queried %d times for invalid input, want 0", len(eng.calls))
	}
}

func TestRunStopsPastMaxLength(t *testing.T) {
	// Three disjoint transpositions: lower bound 3, and n-1 = 5 caps the
	// deepening at k=5. A permanently unsat engine must stop there.
	eng := &scriptedEngine{} // empty script: every query answers unsat
	ctrl := NewController(eng, 0, 0, quietLogger())

	res := ctrl.Run(context.Background(), perm.Permutation{2, 1, 4, 3, 6, 5}, defaultStrategy(t))

	if res.State != StateInconclusive {
		t.Fatalf("State = %v, want %v", res.State, StateInconclusive)
	}
	if got := errors.GetCode(res.Err); got != errors.ErrCodeInternal {
		t.Errorf("GetCode(Err) = %q, want %q", got, errors.ErrCodeInternal)
	}
	wantCalls := []int{3, 5}
	if len(eng.calls) != len(wantCalls) || eng.calls[0] != 3 || eng.calls[1] != 5 {
		t.Errorf("engine calls = %v, want %v (even lengths must be skipped)", eng.calls, wantCalls)
	}
}

func TestRunBudgetCancelsEngine(t *testing.T) {
	ctrl := NewController(blockingEngine{}, 0, 10*time.Millisecond, quietLogger())

	res := ctrl.Run(context.Background(), perm.Permutation{2, 3, 1, 5, 4}, defaultStrategy(t))

	if res.State != StateInconclusive {
		t.Fatalf("State = %v, want %v", res.State, StateInconclusive)
	}
	if res.Err != nil {
		t.Errorf("Err = %v, want nil; a budget expiry is a clean timeout", res.Err)
	}
	if !strings.Contains(res.Reason, "run budget") {
		t.Errorf("Reason = %q, want it to mention the run budget", res.Reason)
	}
}

func TestRunCallerCancellationIsNotATimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ctrl := NewController(blockingEngine{}, 0, 0, quietLogger())

	res := ctrl.Run(ctx, perm.Permutation{2, 3, 1, 5, 4}, defaultStrategy(t))

	if res.State != StateInconclusive {
		t.Fatalf("State = %v, want %v", res.State, StateInconclusive)
	}
	if !stderrors.Is(res.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled preserved", res.Err)
	}
	if !strings.Contains(res.Reason, "cancelled") {
		t.Errorf("Reason = %q, want it to mention cancellation", res.Reason)
	}
}

func TestRunSurfacesEngineFailure(t *testing.T) {
	eng := &scriptedEngine{err: errors.New(errors.ErrCodeEngineCrash, "solver exited with status 2")}
	ctrl := NewController(eng, 0, 0, quietLogger())

	res := ctrl.Run(context.Background(), perm.Permutation{2, 1}, defaultStrategy(t))

	if res.State != StateInconclusive {
		t.Fatalf("State = %v, want %v", res.State, StateInconclusive)
	}
	if got := errors.GetCode(res.Err); got != errors.ErrCodeEngineCrash {
		t.Errorf("GetCode(Err) = %q, want %q", got, errors.ErrCodeEngineCrash)
	}
	if len(eng.calls) != 1 {
		t.Errorf("engine calls = %v, want exactly one; failures must not deepen", eng.calls)
	}
}

func TestNewControllerDefaultsLogger(t *testing.T) {
	ctrl := NewController(engine.NewNative(), 0, 0, nil)
	if ctrl.Logger == nil {
		t.Error("Logger = nil, want default logger")
	}
}
