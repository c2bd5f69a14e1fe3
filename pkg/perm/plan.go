package perm

import (
	"fmt"
	"strings"

	"github.com/matzehuels/swapbench/pkg/errors"
)

// Swap exchanges the values at two 1-based positions. Well-formed swaps
// always have A < B.
type Swap struct {
	A int
	B int
}

// String renders the swap as "(a,b)".
func (s Swap) String() string {
	return fmt.Sprintf("(%d,%d)", s.A, s.B)
}

// Plan is an ordered sequence of swaps claimed to sort a start permutation.
type Plan []Swap

// Apply returns the permutation obtained by applying every swap of pl to
// start in order. start is not modified. Swap positions must be in range;
// use Validate first for untrusted plans.
func (pl Plan) Apply(start Permutation) Permutation {
	out := start.Clone()
	for _, s := range pl {
		out[s.A-1], out[s.B-1] = out[s.B-1], out[s.A-1]
	}
	return out
}

// Validate replays pl against start and checks that it is a genuine
// sorting plan: every swap names two in-range positions with A < B, and the
// final state is sorted. This is the soundness bar for accepting a solution
// from an engine; the engines' own move rules are stricter, see
// ValidateStrict.
func (pl Plan) Validate(start Permutation) error {
	return pl.replay(start, false)
}

// ValidateStrict checks everything Validate does, plus the move rule the
// engine model enforces: every swap places at least one of the two moved
// values into its home position. Plans of this form always have length
// equal to the start permutation's LowerBound.
func (pl Plan) ValidateStrict(start Permutation) error {
	return pl.replay(start, true)
}

func (pl Plan) replay(start Permutation, strict bool) error {
	if err := start.Validate(); err != nil {
		return err
	}

	cur := start.Clone()
	n := len(cur)
	for i, s := range pl {
		if s.A < 1 || s.B > n || s.A >= s.B {
			return errors.New(errors.ErrCodeInvalidPlan,
				"swap %d of %d: %s is not an ordered pair of positions in 1..%d", i+1, len(pl), s, n)
		}
		cur[s.A-1], cur[s.B-1] = cur[s.B-1], cur[s.A-1]
		if strict && cur[s.A-1] != s.A && cur[s.B-1] != s.B {
			return errors.New(errors.ErrCodeInvalidPlan,
				"swap %d of %d: %s places neither value into its home position", i+1, len(pl), s)
		}
	}

	if !cur.IsSorted() {
		return errors.New(errors.ErrCodeInvalidPlan,
			"plan of length %d leaves %s unsorted", len(pl), cur)
	}
	return nil
}

// String renders the plan as space-separated swaps, e.g. "(1,3) (2,3)".
func (pl Plan) String() string {
	parts := make([]string, len(pl))
	for i, s := range pl {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}
