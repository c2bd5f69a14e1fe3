package perm

import (
	"math/rand/v2"
	"reflect"
	"testing"
)

func TestInversions(t *testing.T) {
	tests := []struct {
		name string
		p    Permutation
		want int
	}{
		{"identity", Permutation{1, 2, 3, 4, 5}, 0},
		{"empty", nil, 0},
		{"single", Permutation{1}, 0},
		{"one swap", Permutation{2, 1}, 1},
		{"sample", Permutation{2, 3, 1, 5, 4}, 3},
		{"reversal", Permutation{5, 4, 3, 2, 1}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Inversions(); got != tt.want {
				t.Errorf("Inversions(%v) = %d, want %d", tt.p, got, tt.want)
			}
		})
	}
}

func TestCycles(t *testing.T) {
	tests := []struct {
		name string
		p    Permutation
		want [][]int
	}{
		{
			name: "sample",
			p:    Permutation{2, 3, 1, 5, 4},
			want: [][]int{{1, 2, 3}, {4, 5}},
		},
		{
			name: "identity",
			p:    Permutation{1, 2, 3, 4},
			want: [][]int{{1}, {2}, {3}, {4}},
		},
		{
			name: "transposition",
			p:    Permutation{2, 1},
			want: [][]int{{1, 2}},
		},
		{
			name: "full cycle",
			p:    Permutation{2, 3, 4, 5, 1},
			want: [][]int{{1, 2, 3, 4, 5}},
		},
		{
			name: "empty",
			p:    nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.p.Cycles()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Cycles(%v) = %v, want %v", tt.p, got, tt.want)
			}
			if tt.p.CycleCount() != len(tt.want) {
				t.Errorf("CycleCount(%v) = %d, want %d", tt.p, tt.p.CycleCount(), len(tt.want))
			}
		})
	}
}

func TestLowerBound(t *testing.T) {
	tests := []struct {
		name string
		p    Permutation
		want int
	}{
		{"identity", Permutation{1, 2, 3, 4, 5}, 0},
		{"empty", nil, 0},
		{"one swap", Permutation{2, 1}, 1},
		{"sample", Permutation{2, 3, 1, 5, 4}, 3},
		{"reversal of five", Permutation{5, 4, 3, 2, 1}, 2},
		{"full cycle", Permutation{2, 3, 4, 5, 1}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.LowerBound(); got != tt.want {
				t.Errorf("LowerBound(%v) = %d, want %d", tt.p, got, tt.want)
			}
		})
	}
}

// Every swap flips the inversion parity and the identity has zero
// inversions, so the bound and the inversion count always agree mod 2.
func TestParityLaw(t *testing.T) {
	rng := rand.New(rand.NewPCG(99, 7))
	for n := 1; n <= 40; n++ {
		for range 25 {
			p := Random(n, rng)
			if p.LowerBound()%2 != p.Parity() {
				t.Fatalf("parity law violated for %v: bound %d, inversions %d",
					p, p.LowerBound(), p.Inversions())
			}
		}
	}
}

type swapDist struct {
	p Permutation
	d int
}

// swapDistances runs a breadth-first search from the identity over single
// swaps and returns the distance to every permutation of size n. The swap
// graph is connected, so this enumerates the whole symmetric group.
func swapDistances(n int) []swapDist {
	start := Identity(n)
	dist := map[string]int{start.String(): 0}
	all := []swapDist{{start, 0}}

	for head := 0; head < len(all); head++ {
		cur := all[head]
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				next := cur.p.Clone()
				next[i], next[j] = next[j], next[i]
				key := next.String()
				if _, seen := dist[key]; !seen {
					dist[key] = cur.d + 1
					all = append(all, swapDist{next, cur.d + 1})
				}
			}
		}
	}
	return all
}

// The bound is exact: for every permutation up to n=8, the true swap
// distance from the identity equals n minus the cycle count.
func TestLowerBoundIsExactDistance(t *testing.T) {
	limit := 8
	if testing.Short() {
		limit = 6
	}
	for n := 2; n <= limit; n++ {
		for _, e := range swapDistances(n) {
			if got := e.p.LowerBound(); got != e.d {
				t.Fatalf("n=%d: LowerBound(%v) = %d, true distance %d", n, e.p, got, e.d)
			}
		}
	}
}

func TestParitySample(t *testing.T) {
	p := Permutation{2, 3, 1, 5, 4}
	if p.Parity() != 1 {
		t.Errorf("Parity = %d, want 1", p.Parity())
	}
	if Identity(6).Parity() != 0 {
		t.Errorf("identity parity = %d, want 0", Identity(6).Parity())
	}
}
