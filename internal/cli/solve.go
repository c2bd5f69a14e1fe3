package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swapbench/pkg/cache"
	"github.com/matzehuels/swapbench/pkg/deepening"
	"github.com/matzehuels/swapbench/pkg/engine"
	"github.com/matzehuels/swapbench/pkg/errors"
	"github.com/matzehuels/swapbench/pkg/observability"
	"github.com/matzehuels/swapbench/pkg/perm"
	"github.com/matzehuels/swapbench/pkg/strategy"
)

// planKeyType tags plan cache events raised through the observability hooks.
const planKeyType = "plan"

// solveCommand creates the solve command for analyzing and solving one instance.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		engineName   string
		strategyName string
		timeoutSec   int
		noCache      bool
		n            int
		seed         uint64
	)

	cmd := &cobra.Command{
		Use:   "solve [permutation]",
		Short: "Find a minimum swap sequence for one permutation",
		Long: `Find a minimum swap sequence for one permutation.

The permutation is given as comma- or space-separated values of 1..n, with
optional brackets. Without an argument, solve generates a random instance
of length --n.

The command first prints what is known for free: inversions, the cycle
decomposition, the resulting lower bound on the plan length, and the
parity of the permutation. It then asks the engine for a plan of exactly
the lower-bound length, lengthening by two on proofs of infeasibility,
and verifies the plan before printing it.

Solved plans are cached, so resolving the same instance with the same
engine and strategy is instant. Use --no-cache to bypass the cache.`,
		Example: `  # Solve a specific permutation
  swapbench solve 2,3,1,5,4

  # Solve a random permutation of length 20 with the firstfail strategy
  swapbench solve --n 20 --strategy firstfail

  # Use the MiniZinc engine with a one-minute budget
  swapbench solve 4,3,2,1 --engine minizinc --timeout 60`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, usedSeed, err := resolveInstance(args, n, seed)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				printInfo("Generated a random permutation of length %d (seed %d)", len(p), usedSeed)
			}

			cfg, err := strategy.Lookup(strategyName)
			if err != nil {
				return err
			}
			eng, err := engine.New(engineName, engine.Options{Seed: seed})
			if err != nil {
				return err
			}

			timeout := time.Duration(timeoutSec) * time.Second
			return c.runSolve(cmd.Context(), p, eng, cfg, timeout, noCache)
		},
	}

	cmd.Flags().StringVar(&engineName, "engine", engine.NameNative, "engine: native, minizinc")
	cmd.Flags().StringVar(&strategyName, "strategy", "default", "search strategy (see 'swapbench strategies')")
	cmd.Flags().IntVar(&timeoutSec, "timeout", defaultSolveTimeout, "solve budget in seconds (0 = no limit)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the solved-plan cache")
	cmd.Flags().IntVar(&n, "n", defaultRandomN, "random instance length when no permutation is given")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")

	return cmd
}

// resolveInstance parses the positional permutation argument, or generates a
// random instance of length n when none is given. The returned seed is the
// one the generator actually used, zero for parsed input.
func resolveInstance(args []string, n int, seed uint64) (perm.Permutation, uint64, error) {
	if len(args) == 1 {
		p, err := perm.Parse(args[0])
		return p, 0, err
	}
	if n < 1 {
		return nil, 0, errors.New(errors.ErrCodeInvalidInput, "random instance length %d is not positive", n)
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, uint64(n)))
	return perm.Random(n, rng), seed, nil
}

// runSolve analyzes p, consults the plan cache, and runs the deepening
// controller on a miss.
func (c *CLI) runSolve(ctx context.Context, p perm.Permutation, eng engine.Engine, cfg strategy.Config, timeout time.Duration, noCache bool) error {
	printAnalysis(p)

	store, keyer, err := newPlanCache(noCache)
	if err != nil {
		return fmt.Errorf("open plan cache: %w", err)
	}
	defer store.Close()

	key := keyer.PlanKey(eng.Name(), cfg.Name, p)

	if k, plan, ok := lookupPlan(ctx, store, key, p); ok {
		printSuccess("Solved in %d swaps", k)
		printRunStats(k, 0, 0, true)
		printPlanSteps(p, plan)
		return nil
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Solving with %s on the %s engine...", cfg.Name, eng.Name()))
	spinner.Start()

	ctrl := deepening.NewController(eng, timeout, timeout, loggerFromContext(ctx))
	res := ctrl.Run(ctx, p, cfg)

	switch res.State {
	case deepening.StateSolved:
		spinner.StopWithSuccess(fmt.Sprintf("Solved in %d swaps", res.K))
		printRunStats(res.K, len(res.Queries), res.Elapsed, false)
		printPlanSteps(p, res.Plan)
		storePlan(ctx, store, key, res.K, res.Plan)
		printNewline()
		printNextStep("Compare every strategy", "swapbench sweep")
		return nil
	case deepening.StateRejected:
		spinner.StopWithError("Input rejected")
		return errors.New(errors.ErrCodeInvalidPermutation, "%s", res.Reason)
	default:
		spinner.StopWithError(res.Reason)
		if res.Err != nil {
			return res.Err
		}
		return errors.New(errors.ErrCodeEngineTimeout, "no plan found within %s", timeout)
	}
}

// printAnalysis prints the structural facts of the permutation that hold
// regardless of which engine or strategy runs.
func printAnalysis(p perm.Permutation) {
	printKeyValue("Vector", p.String())
	printKeyValue("Length", strconv.Itoa(len(p)))
	printKeyValue("Inversions", strconv.Itoa(p.Inversions()))
	printKeyValue("Cycles", formatCycles(p.Cycles()))
	printKeyValue("Lower bound", fmt.Sprintf("%d swaps", p.LowerBound()))
	printKeyValue("Parity", parityName(p.Parity()))
	printNewline()
}

// formatCycles renders a cycle decomposition like "2: (1 2 3) (4 5)".
// Decompositions too wide for one line fall back to the count alone.
func formatCycles(cycles [][]int) string {
	rendered := make([]string, len(cycles))
	width := 0
	for i, cycle := range cycles {
		parts := make([]string, len(cycle))
		for j, v := range cycle {
			parts[j] = strconv.Itoa(v)
		}
		rendered[i] = "(" + strings.Join(parts, " ") + ")"
		width += len(rendered[i]) + 1
	}
	if width > 60 {
		return strconv.Itoa(len(cycles))
	}
	return fmt.Sprintf("%d: %s", len(cycles), strings.Join(rendered, " "))
}

// parityName renders a parity bit for humans.
func parityName(parity int) string {
	if parity == 0 {
		return "even"
	}
	return "odd"
}

// printPlanSteps prints the plan one swap per line, tracking the vector as
// it sorts.
func printPlanSteps(start perm.Permutation, plan perm.Plan) {
	if len(plan) == 0 {
		printDetail("Already sorted, nothing to do")
		return
	}
	printNewline()
	fmt.Println(StyleTitle.Render("Plan"))
	for _, line := range planSteps(start, plan) {
		printDetail("%s", line)
	}
}

// planSteps renders each swap of the plan together with the vector state it
// produces. Shared between terminal output and sweep report files.
func planSteps(start perm.Permutation, plan perm.Plan) []string {
	lines := make([]string, len(plan))
	cur := start.Clone()
	for i, s := range plan {
		cur[s.A-1], cur[s.B-1] = cur[s.B-1], cur[s.A-1]
		lines[i] = fmt.Sprintf("%2d. swap positions %d and %d -> %s", i+1, s.A, s.B, cur)
	}
	return lines
}

// =============================================================================
// Plan Cache
// =============================================================================

// cachedPlan is the JSON payload stored in the plan cache.
type cachedPlan struct {
	K    int       `json:"k"`
	Plan perm.Plan `json:"plan"`
}

// lookupPlan fetches and validates a cached plan for p. Stale or corrupt
// entries count as misses; a cached plan is only believed after it replays
// to a sorted vector, same as a fresh engine answer.
func lookupPlan(ctx context.Context, store cache.Cache, key string, p perm.Permutation) (int, perm.Plan, bool) {
	data, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, planKeyType)
		return 0, nil, false
	}
	k, plan, ok := decodeCachedPlan(data, p)
	if !ok {
		observability.Cache().OnCacheMiss(ctx, planKeyType)
		return 0, nil, false
	}
	observability.Cache().OnCacheHit(ctx, planKeyType)
	return k, plan, true
}

// decodeCachedPlan unmarshals a cache payload and checks it against p.
func decodeCachedPlan(data []byte, p perm.Permutation) (int, perm.Plan, bool) {
	var entry cachedPlan
	if err := json.Unmarshal(data, &entry); err != nil {
		return 0, nil, false
	}
	if len(entry.Plan) != entry.K {
		return 0, nil, false
	}
	if err := entry.Plan.Validate(p); err != nil {
		return 0, nil, false
	}
	return entry.K, entry.Plan, true
}

// storePlan writes a verified plan to the cache. Failures are ignored; the
// plan was already printed and the cache is an optimization.
func storePlan(ctx context.Context, store cache.Cache, key string, k int, plan perm.Plan) {
	data, err := json.Marshal(cachedPlan{K: k, Plan: plan})
	if err != nil {
		return
	}
	if err := store.Set(ctx, key, data, 0); err == nil {
		observability.Cache().OnCacheSet(ctx, planKeyType, len(data))
	}
}
