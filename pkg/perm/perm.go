package perm

import (
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/swapbench/pkg/errors"
)

// Permutation is a permutation of the values 1..n in one-line notation:
// p[i] is the value at 1-based position i+1.
type Permutation []int

// Identity returns the sorted permutation [1, 2, ..., n].
func Identity(n int) Permutation {
	p := make(Permutation, n)
	for i := range p {
		p[i] = i + 1
	}
	return p
}

// Random returns a uniformly random permutation of 1..n drawn from rng.
func Random(n int, rng *rand.Rand) Permutation {
	p := make(Permutation, n)
	for i, v := range rng.Perm(n) {
		p[i] = v + 1
	}
	return p
}

// Parse reads a permutation from text. Values may be separated by commas,
// whitespace, or both, with optional surrounding brackets:
//
//	2,3,1,5,4
//	[2, 3, 1, 5, 4]
//	2 3 1 5 4
//
// The result is validated before it is returned.
func Parse(s string) (Permutation, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "[")
	trimmed = strings.TrimSuffix(trimmed, "]")

	fields := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty permutation")
	}

	p := make(Permutation, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "not a number: %q", f)
		}
		p = append(p, v)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that p contains every value 1..len(p) exactly once.
// The empty permutation is valid.
func (p Permutation) Validate() error {
	n := len(p)
	seen := make([]bool, n)
	for i, v := range p {
		if v < 1 || v > n {
			return errors.New(errors.ErrCodeInvalidPermutation,
				"value %d at position %d is outside 1..%d", v, i+1, n)
		}
		if seen[v-1] {
			return errors.New(errors.ErrCodeInvalidPermutation,
				"value %d appears more than once", v)
		}
		seen[v-1] = true
	}
	return nil
}

// IsSorted reports whether p is the identity permutation.
func (p Permutation) IsSorted() bool {
	for i, v := range p {
		if v != i+1 {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of p.
func (p Permutation) Clone() Permutation {
	return slices.Clone(p)
}

// String renders p in the comma-separated form Parse accepts.
func (p Permutation) String() string {
	var b strings.Builder
	for i, v := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}
