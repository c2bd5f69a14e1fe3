package engine

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/swapbench/pkg/errors"
	"github.com/matzehuels/swapbench/pkg/perm"
)

//go:embed sorting.mzn.tmpl
var modelTemplate string

// strategyPlaceholder is replaced with the rendered solve item before the
// model is handed to the solver.
const strategyPlaceholder = "{{SOLVE_STRATEGY}}"

// searchVars is the decision variable array search annotations run over.
const searchVars = "all_moves"

// killGrace is how long the solver may overrun its own time limit before
// the process is killed.
const killGrace = 10 * time.Second

// MiniZinc runs each request as one minizinc process over the embedded
// sorting model. The zero value is not usable; construct with NewMiniZinc.
type MiniZinc struct {
	Binary string // minizinc executable
	Solver string // backing solver, e.g. "gecode"
}

// NewMiniZinc returns an adapter using the minizinc binary from PATH and
// the gecode solver.
func NewMiniZinc() *MiniZinc {
	return &MiniZinc{Binary: "minizinc", Solver: "gecode"}
}

// Name implements Engine.
func (m *MiniZinc) Name() string { return NameMiniZinc }

// Solve implements Engine. The request timeout is passed to minizinc as its
// own time limit; the process is killed if it overruns the limit by more
// than a grace period.
func (m *MiniZinc) Solve(ctx context.Context, req Request) (Outcome, error) {
	if err := validateRequest(req); err != nil {
		return Outcome{}, err
	}

	dir, err := os.MkdirTemp("", "swapbench-mzn-")
	if err != nil {
		return Outcome{}, errors.Wrap(errors.ErrCodeInternal, err, "creating model directory")
	}
	defer os.RemoveAll(dir)

	modelPath := filepath.Join(dir, "sorting.mzn")
	dataPath := filepath.Join(dir, "instance.dzn")
	if err := os.WriteFile(modelPath, []byte(renderModel(req)), 0o644); err != nil {
		return Outcome{}, errors.Wrap(errors.ErrCodeInternal, err, "writing model file")
	}
	if err := os.WriteFile(dataPath, []byte(renderData(req)), 0o644); err != nil {
		return Outcome{}, errors.Wrap(errors.ErrCodeInternal, err, "writing data file")
	}

	args := []string{"--solver", m.Solver}
	if req.Timeout > 0 {
		args = append(args, "--time-limit", strconv.FormatInt(req.Timeout.Milliseconds(), 10))

		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout+killGrace)
		defer cancel()
	}
	args = append(args, modelPath, dataPath)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, m.Binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	switch {
	case ctx.Err() == context.DeadlineExceeded:
		return Outcome{
			Status:  StatusUnknown,
			Elapsed: elapsed,
			Reason:  fmt.Sprintf("killed %v past its %v time limit", killGrace, req.Timeout),
		}, nil
	case ctx.Err() != nil:
		return Outcome{}, ctx.Err()
	case runErr != nil:
		return Outcome{}, errors.Wrap(errors.ErrCodeEngineCrash, runErr,
			"minizinc failed: %s", tail(stderr.String(), 400))
	}

	outcome, err := parseOutput(stdout.String(), req.K)
	if err != nil {
		return Outcome{}, err
	}
	outcome.Elapsed = elapsed
	return outcome, nil
}

// renderModel substitutes the strategy's solve item into the embedded
// model template.
func renderModel(req Request) string {
	return strings.Replace(modelTemplate, strategyPlaceholder, req.Strategy.Annotation(searchVars), 1)
}

// renderData renders the instance as a MiniZinc data file.
func renderData(req Request) string {
	vals := make([]string, len(req.Perm))
	for i, v := range req.Perm {
		vals[i] = strconv.Itoa(v)
	}
	return fmt.Sprintf("n = %d;\nk = %d;\nstart_v = [%s];\n", len(req.Perm), req.K, strings.Join(vals, ", "))
}

// MiniZinc output markers, per the standard output protocol.
const (
	markerSolution = "----------"
	markerUnsat    = "=====UNSATISFIABLE====="
	markerUnknown  = "=====UNKNOWN====="
	markerError    = "=====ERROR====="
)

// parseOutput interprets minizinc stdout for a single satisfy question.
func parseOutput(out string, k int) (Outcome, error) {
	switch {
	case strings.Contains(out, markerUnsat):
		return Outcome{Status: StatusUnsat}, nil

	case strings.Contains(out, markerError):
		return Outcome{}, errors.New(errors.ErrCodeEngineCrash,
			"solver reported an error: %s", tail(out, 400))

	case strings.Contains(out, markerUnknown):
		return Outcome{Status: StatusUnknown, Reason: "solver gave up within its time limit"}, nil

	case strings.Contains(out, markerSolution):
		plan, err := parsePlan(out, k)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Status: StatusSat, Plan: plan}, nil

	default:
		return Outcome{}, errors.New(errors.ErrCodeMalformedOutput,
			"no status marker in solver output: %s", tail(out, 400))
	}
}

// parsePlan extracts the idx1/idx2 assignment arrays and zips them into a
// plan of exactly k swaps.
func parsePlan(out string, k int) (perm.Plan, error) {
	idx1, err := parseIntArray(out, "idx1")
	if err != nil {
		return nil, err
	}
	idx2, err := parseIntArray(out, "idx2")
	if err != nil {
		return nil, err
	}
	if len(idx1) != k || len(idx2) != k {
		return nil, errors.New(errors.ErrCodeMalformedOutput,
			"expected %d swaps, solver printed %d/%d positions", k, len(idx1), len(idx2))
	}

	plan := make(perm.Plan, k)
	for t := range plan {
		plan[t] = perm.Swap{A: idx1[t], B: idx2[t]}
	}
	return plan, nil
}

// parseIntArray finds the "name = [a, b, c];" line in out and returns the
// bracketed values. An empty array renders as "[]".
func parseIntArray(out, name string) ([]int, error) {
	for _, line := range strings.Split(out, "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), name+" = [")
		if !ok {
			continue
		}
		body, ok := strings.CutSuffix(rest, "];")
		if !ok {
			return nil, errors.New(errors.ErrCodeMalformedOutput, "unterminated %s array: %q", name, line)
		}
		body = strings.TrimSpace(body)
		if body == "" {
			return []int{}, nil
		}

		parts := strings.Split(body, ",")
		vals := make([]int, 0, len(parts))
		for _, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeMalformedOutput, err, "bad value in %s array", name)
			}
			vals = append(vals, v)
		}
		return vals, nil
	}
	return nil, errors.New(errors.ErrCodeMalformedOutput, "no %s array in solver output", name)
}

// tail returns at most the last n bytes of s, trimmed.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
