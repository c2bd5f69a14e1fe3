package engine

import (
	"context"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/matzehuels/swapbench/pkg/perm"
	"github.com/matzehuels/swapbench/pkg/strategy"
)

// Native answers requests with an in-process complete search over fixing
// swaps: at every step, some misplaced value is swapped into its home
// position. Every sorting plan under the model's swap rules has this form,
// so exhausting the move tree proves unsat.
//
// Strategy descriptors shape the search: the variable heuristic scores
// which fix to branch on first, the value heuristic orders ties, and the
// restart schedule caps the nodes spent per round. The final round is
// always unbounded, which keeps the answer definitive.
type Native struct {
	// Seed drives randomized move orderings. Runs with equal seeds and
	// equal requests produce identical plans.
	Seed uint64
}

// NewNative returns a native engine with a fixed default seed.
func NewNative() *Native { return &Native{Seed: 1} }

// Name implements Engine.
func (e *Native) Name() string { return NameNative }

// Solve implements Engine.
func (e *Native) Solve(ctx context.Context, req Request) (Outcome, error) {
	if err := validateRequest(req); err != nil {
		return Outcome{}, err
	}

	parent := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	start := time.Now()
	s := &search{
		k:       req.K,
		cfg:     req.Strategy,
		ctx:     ctx,
		weights: map[perm.Swap]int64{},
	}

	unknown := func() (Outcome, error) {
		if parent.Err() != nil {
			return Outcome{}, parent.Err()
		}
		return Outcome{
			Status:  StatusUnknown,
			Elapsed: time.Since(start),
			Reason:  "search timed out",
			Nodes:   s.nodes,
		}, nil
	}

	for round, budget := range searchBudgets(req.Strategy.Restart) {
		if ctx.Err() != nil {
			return unknown()
		}

		s.cur = req.Perm.Clone()
		s.plan = s.plan[:0]
		s.rng = rand.New(rand.NewPCG(e.Seed, uint64(round)))
		s.budget = budget

		switch s.dfs() {
		case resFound:
			plan := make(perm.Plan, len(s.plan))
			copy(plan, s.plan)
			return Outcome{
				Status:   StatusSat,
				Plan:     plan,
				Elapsed:  time.Since(start),
				Nodes:    s.nodes,
				Restarts: round,
			}, nil
		case resInfeasible:
			return Outcome{
				Status:   StatusUnsat,
				Elapsed:  time.Since(start),
				Nodes:    s.nodes,
				Restarts: round,
			}, nil
		case resCancelled:
			return unknown()
		case resBudget:
			// next round
		}
	}

	// Unreachable: the last budget is unbounded.
	return unknown()
}

type searchResult int

const (
	resFound searchResult = iota
	resInfeasible
	resBudget
	resCancelled
)

type search struct {
	k       int
	cfg     strategy.Config
	cur     perm.Permutation
	plan    perm.Plan
	rng     *rand.Rand
	weights map[perm.Swap]int64 // dead-end counts for dom_w_deg, kept across rounds
	budget  int64               // nodes left this round, < 0 means unbounded
	nodes   int64
	ctx     context.Context
}

// dfs extends s.plan move by move. It prunes any state whose exact swap
// distance (length minus cycle count) differs from the remaining depth:
// fixing swaps split exactly one cycle each, so no other state can reach
// the identity in the moves left.
func (s *search) dfs() searchResult {
	s.nodes++
	if s.budget >= 0 {
		if s.budget == 0 {
			return resBudget
		}
		s.budget--
	}
	if s.nodes%256 == 0 && s.ctx.Err() != nil {
		return resCancelled
	}

	remaining := s.k - len(s.plan)
	if remaining != s.cur.LowerBound() {
		return resInfeasible
	}
	if remaining == 0 {
		return resFound
	}

	for _, m := range s.orderedMoves() {
		if len(s.plan) > 0 {
			// Disjoint consecutive swaps commute; search only the
			// ordered form.
			prev := s.plan[len(s.plan)-1]
			if disjoint(prev, m) && lexLess(m, prev) {
				continue
			}
		}

		s.apply(m)
		s.plan = append(s.plan, m)
		res := s.dfs()
		s.plan = s.plan[:len(s.plan)-1]
		s.apply(m)

		switch res {
		case resFound:
			return resFound
		case resInfeasible:
			s.weights[m]++
		default:
			return res
		}
	}
	return resInfeasible
}

// apply swaps the two positions of m in place. A swap is its own inverse,
// so apply also undoes.
func (s *search) apply(m perm.Swap) {
	s.cur[m.A-1], s.cur[m.B-1] = s.cur[m.B-1], s.cur[m.A-1]
}

// legalMoves returns the deduplicated fixing swaps available in the
// current state: for each misplaced value v at position q, the swap of
// positions q and v that sends v home.
func (s *search) legalMoves() []perm.Swap {
	var moves []perm.Swap
	seen := make(map[perm.Swap]bool)
	for q := 1; q <= len(s.cur); q++ {
		v := s.cur[q-1]
		if v == q {
			continue
		}
		m := perm.Swap{A: min(q, v), B: max(q, v)}
		if !seen[m] {
			seen[m] = true
			moves = append(moves, m)
		}
	}
	return moves
}

// orderedMoves applies the strategy's heuristics: ties are laid out by the
// value heuristic, then a stable sort ranks moves by the variable
// heuristic's score.
func (s *search) orderedMoves() []perm.Swap {
	moves := s.legalMoves()

	switch s.cfg.ValHeur {
	case "indomain_random":
		s.rng.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })
	case "indomain_split":
		sort.Slice(moves, func(i, j int) bool {
			gi, gj := moves[i].B-moves[i].A, moves[j].B-moves[j].A
			if gi != gj {
				return gi < gj
			}
			return lexLess(moves[i], moves[j])
		})
	default:
		sort.Slice(moves, func(i, j int) bool { return lexLess(moves[i], moves[j]) })
	}

	score := s.moveScore()
	sort.SliceStable(moves, func(i, j int) bool { return score(moves[i]) < score(moves[j]) })
	return moves
}

// moveScore translates the variable heuristic into a move score; lower
// scores branch first.
func (s *search) moveScore() func(perm.Swap) int {
	switch s.cfg.VarHeur {
	case "first_fail", "most_constrained", "anti_first_fail":
		cycleLen := make([]int, len(s.cur)+1)
		for _, c := range s.cur.Cycles() {
			for _, p := range c {
				cycleLen[p] = len(c)
			}
		}
		switch s.cfg.VarHeur {
		case "first_fail":
			return func(m perm.Swap) int { return cycleLen[m.A] }
		case "anti_first_fail":
			return func(m perm.Swap) int { return -cycleLen[m.A] }
		default:
			return func(m perm.Swap) int { return cycleLen[m.A]*1000 - (m.B - m.A) }
		}
	case "smallest":
		return func(m perm.Swap) int { return min(s.cur[m.A-1], s.cur[m.B-1]) }
	case "max_regret":
		return func(m perm.Swap) int { return -(m.B - m.A) }
	case "dom_w_deg":
		return func(m perm.Swap) int { return -int(s.weights[m]) }
	default:
		return func(perm.Swap) int { return 0 }
	}
}

func disjoint(a, b perm.Swap) bool {
	return a.A != b.A && a.A != b.B && a.B != b.A && a.B != b.B
}

func lexLess(a, b perm.Swap) bool {
	return a.A < b.A || (a.A == b.A && a.B < b.B)
}

// searchBudgets expands a restart schedule into per-round node budgets.
// The final round is always unbounded: a deterministic ordering replayed
// under the same budget would otherwise never make progress.
func searchBudgets(r strategy.Restart) []int64 {
	const rounds = 12
	var budgets []int64

	switch r.Policy {
	case strategy.RestartLuby:
		for i := 1; i <= rounds; i++ {
			budgets = append(budgets, int64(r.Scale)*luby(i))
		}
	case strategy.RestartGeometric:
		b := float64(r.Scale)
		for range rounds {
			budgets = append(budgets, int64(b))
			b *= r.Base
		}
	case strategy.RestartLinear:
		for i := 1; i <= rounds; i++ {
			budgets = append(budgets, int64(r.Scale)*int64(i))
		}
	}
	return append(budgets, -1)
}

// luby returns the i-th element (1-based) of the Luby sequence
// 1 1 2 1 1 2 4 1 1 2 1 1 2 4 8 ...
func luby(i int) int64 {
	for k := 1; ; k++ {
		if i == (1<<k)-1 {
			return 1 << (k - 1)
		}
		if i < (1<<k)-1 {
			return luby(i - (1 << (k - 1)) + 1)
		}
	}
}
