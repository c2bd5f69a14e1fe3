package engine

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/matzehuels/swapbench/pkg/perm"
	"github.com/matzehuels/swapbench/pkg/strategy"
)

func mustStrategy(t *testing.T, name string) strategy.Config {
	t.Helper()
	cfg, err := strategy.Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestNativeSatAtLowerBound(t *testing.T) {
	sample := perm.Permutation{2, 3, 1, 5, 4}

	for _, cfg := range strategy.All() {
		t.Run(cfg.Name, func(t *testing.T) {
			e := NewNative()
			out, err := e.Solve(context.Background(), Request{
				Perm:     sample,
				K:        sample.LowerBound(),
				Strategy: cfg,
				Timeout:  time.Minute,
			})
			if err != nil {
				t.Fatalf("Solve error = %v", err)
			}
			if out.Status != StatusSat {
				t.Fatalf("Status = %v, want sat", out.Status)
			}
			if len(out.Plan) != 3 {
				t.Fatalf("plan length = %d, want 3", len(out.Plan))
			}
			if err := out.Plan.ValidateStrict(sample); err != nil {
				t.Errorf("plan %v invalid: %v", out.Plan, err)
			}
			if out.Nodes == 0 {
				t.Error("Nodes = 0, want > 0")
			}
		})
	}
}

func TestNativeUnsatOffBound(t *testing.T) {
	sample := perm.Permutation{2, 3, 1, 5, 4} // lower bound 3
	cfg := mustStrategy(t, "firstfail")

	for _, k := range []int{0, 1, 2, 4, 5} {
		e := NewNative()
		out, err := e.Solve(context.Background(), Request{Perm: sample, K: k, Strategy: cfg})
		if err != nil {
			t.Fatalf("Solve(k=%d) error = %v", k, err)
		}
		if out.Status != StatusUnsat {
			t.Errorf("Solve(k=%d).Status = %v, want unsat", k, out.Status)
		}
	}
}

func TestNativeIdentity(t *testing.T) {
	e := NewNative()
	cfg := mustStrategy(t, "default")

	out, err := e.Solve(context.Background(), Request{Perm: perm.Identity(4), K: 0, Strategy: cfg})
	if err != nil {
		t.Fatalf("Solve error = %v", err)
	}
	if out.Status != StatusSat || len(out.Plan) != 0 {
		t.Errorf("identity at k=0: %v %v, want sat with empty plan", out.Status, out.Plan)
	}

	out, err = e.Solve(context.Background(), Request{Perm: perm.Identity(4), K: 1, Strategy: cfg})
	if err != nil {
		t.Fatalf("Solve error = %v", err)
	}
	if out.Status != StatusUnsat {
		t.Errorf("identity at k=1: %v, want unsat", out.Status)
	}
}

func TestNativeRandomInstances(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 9))
	cfg := mustStrategy(t, "domwdeg_split")
	e := NewNative()

	for n := 4; n <= 9; n++ {
		for range 10 {
			p := perm.Random(n, rng)
			k := p.LowerBound()

			out, err := e.Solve(context.Background(), Request{Perm: p, K: k, Strategy: cfg})
			if err != nil {
				t.Fatalf("Solve(%v, k=%d) error = %v", p, k, err)
			}
			if out.Status != StatusSat {
				t.Fatalf("Solve(%v, k=%d) = %v, want sat", p, k, out.Status)
			}
			if len(out.Plan) != k {
				t.Fatalf("plan length = %d, want %d", len(out.Plan), k)
			}
			if err := out.Plan.ValidateStrict(p); err != nil {
				t.Fatalf("plan %v invalid for %v: %v", out.Plan, p, err)
			}
		}
	}
}

func TestNativeLargeInstance(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 13))
	p := perm.Random(30, rng)
	e := NewNative()

	out, err := e.Solve(context.Background(), Request{
		Perm:     p,
		K:        p.LowerBound(),
		Strategy: mustStrategy(t, "firstfail"),
		Timeout:  time.Minute,
	})
	if err != nil {
		t.Fatalf("Solve error = %v", err)
	}
	if out.Status != StatusSat {
		t.Fatalf("Status = %v, want sat", out.Status)
	}
	if err := out.Plan.ValidateStrict(p); err != nil {
		t.Errorf("plan invalid: %v", err)
	}
}

func TestNativeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewNative()
	_, err := e.Solve(ctx, Request{
		Perm:     perm.Permutation{2, 3, 1, 5, 4},
		K:        3,
		Strategy: mustStrategy(t, "firstfail"),
	})
	if err != context.Canceled {
		t.Errorf("Solve on cancelled context = %v, want context.Canceled", err)
	}
}

func TestNativeDeterministic(t *testing.T) {
	req := Request{
		Perm:     perm.Permutation{4, 2, 5, 1, 3, 7, 6},
		K:        perm.Permutation{4, 2, 5, 1, 3, 7, 6}.LowerBound(),
		Strategy: mustStrategy(t, "firstfail"),
	}

	a, err := (&Native{Seed: 42}).Solve(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	b, err := (&Native{Seed: 42}).Solve(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if a.Plan.String() != b.Plan.String() {
		t.Errorf("equal seeds produced different plans: %v vs %v", a.Plan, b.Plan)
	}
}

func TestLuby(t *testing.T) {
	want := []int64{1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8}
	for i, w := range want {
		if got := luby(i + 1); got != w {
			t.Errorf("luby(%d) = %d, want %d", i+1, got, w)
		}
	}
}

func TestSearchBudgets(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		got := searchBudgets(strategy.Restart{Policy: strategy.RestartNone})
		if len(got) != 1 || got[0] != -1 {
			t.Errorf("budgets = %v, want [-1]", got)
		}
	})

	t.Run("luby", func(t *testing.T) {
		got := searchBudgets(strategy.Restart{Policy: strategy.RestartLuby, Scale: 250})
		if got[0] != 250 || got[2] != 500 {
			t.Errorf("budgets = %v, want luby multiples of 250", got)
		}
		if got[len(got)-1] != -1 {
			t.Errorf("last budget = %d, want -1", got[len(got)-1])
		}
	})

	t.Run("geometric grows", func(t *testing.T) {
		got := searchBudgets(strategy.Restart{Policy: strategy.RestartGeometric, Base: 1.5, Scale: 100})
		if got[0] != 100 || got[1] != 150 || got[2] != 225 {
			t.Errorf("budgets = %v, want 100, 150, 225, ...", got)
		}
	})

	t.Run("linear grows", func(t *testing.T) {
		got := searchBudgets(strategy.Restart{Policy: strategy.RestartLinear, Scale: 100})
		if got[0] != 100 || got[1] != 200 || got[2] != 300 {
			t.Errorf("budgets = %v, want 100, 200, 300, ...", got)
		}
	})
}
