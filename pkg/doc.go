// Package pkg provides the core libraries for Swapbench minimum-swap search.
//
// # Overview
//
// Swapbench finds the shortest sequence of productive swaps that sorts an
// integer permutation, and benchmarks the search strategies that find it.
// The pkg directory is organized into four main areas:
//
//  1. [perm] - Domain model (permutations, analysis, swap plans)
//  2. [engine] / [strategy] - Fixed-length decision procedures and their tuning
//  3. [deepening] - Iterative-deepening controller that turns decisions into optima
//  4. [bench] - Benchmark harness (instance generation, aggregation, CSV)
//
// supported by infrastructure packages: [cache], [config], [observability],
// [errors], and [buildinfo].
//
// # Architecture
//
// The typical data flow through Swapbench:
//
//	Input vector (or seeded random instance)
//	         ↓
//	    [perm] package (inversions, cycles, lower bound, parity)
//	         ↓
//	    [deepening] package (k = lower bound, lower bound+2, ...)
//	         ↓
//	    [engine] package ("sortable in exactly k swaps?" under a [strategy])
//	         ↓
//	    Verified plan + [bench] records/summaries → CSV and report files
//
// # Quick Start
//
// Solve a single permutation:
//
//	import (
//	    "context"
//	    "time"
//	    "github.com/matzehuels/swapbench/pkg/deepening"
//	    "github.com/matzehuels/swapbench/pkg/engine"
//	    "github.com/matzehuels/swapbench/pkg/perm"
//	    "github.com/matzehuels/swapbench/pkg/strategy"
//	)
//
//	// 1. Parse and analyze the input
//	p, _ := perm.Parse("3,1,4,2")
//	fmt.Println(p.LowerBound()) // best case before any search
//
//	// 2. Pick an engine and a search strategy
//	eng, _ := engine.New(engine.NameNative, engine.Options{})
//	cfg, _ := strategy.Lookup("firstfail")
//
//	// 3. Deepen until the first satisfiable length
//	ctrl := deepening.NewController(eng, 5*time.Minute, 5*time.Minute, nil)
//	res := ctrl.Run(context.Background(), p, cfg)
//	if res.Solved() {
//	    fmt.Println(res.K, res.Plan) // minimal length and a verified plan
//	}
//
// # Main Packages
//
// ## Domain Model
//
// [perm] - Permutations over 1..n with structural analysis: inversion
// counting, cycle decomposition, the n-minus-cycles lower bound, and parity.
// A [perm.Plan] is a swap sequence; plans are replayed and validated, never
// trusted.
//
// [strategy] - The named catalog of search configurations (variable and
// value heuristics plus restart policies). Every run is tagged with the
// strategy that produced it, so benchmark output stays comparable across
// catalog revisions.
//
// ## Search
//
// [engine] - Decision procedures answering "does this permutation sort in
// exactly k productive swaps?". The [engine.Native] engine is a complete
// in-process search; [engine.MiniZinc] shells out to an external constraint
// solver. Unsat answers are proofs; resource limits surface as unknown.
//
// [deepening] - The controller that turns the decision procedure into an
// optimizer: start at the permutation's lower bound, step k by the parity
// invariant, verify every claimed plan before believing it.
//
// ## Benchmarking
//
// [bench] - The sweep harness. Generates seeded instances so every strategy
// sees identical inputs, runs them on a bounded worker pool, aggregates
// per-strategy-per-size statistics, and writes the stable CSV schema.
//
// ## Infrastructure
//
// [cache] - Solved-plan caching behind one interface: file-backed for the
// CLI, Redis for shared setups, a null cache for benchmarks. Cached plans
// are re-validated on the way out.
//
// [config] - TOML sweep descriptions with load-time validation.
//
// [observability] - Process-wide hook points (solver, cache, sweep) that
// default to no-ops.
//
// [errors] - Coded errors with user-facing messages, plus the consistency
// error for invariant violations that indicate bugs rather than bad input.
//
// [buildinfo] - Version metadata for the CLI.
//
// # Common Workflows
//
// Run a sweep programmatically:
//
//	eng, _ := engine.New(engine.NameNative, engine.Options{})
//	res, err := bench.Run(ctx, bench.Options{
//	    Sizes:   []int{5, 10, 15},
//	    PerSize: 5,
//	    Engine:  eng,
//	})
//	_ = bench.WriteRecordsCSV(w, res.Records)
//
// Compare two strategies on identical instances:
//
//	a, _ := strategy.Lookup("default")
//	b, _ := strategy.Lookup("domwdeg")
//	res, _ := bench.Run(ctx, bench.Options{
//	    Strategies: []strategy.Config{a, b},
//	    Engine:     eng,
//	    Seed:       42,
//	})
//	for _, s := range res.Summaries {
//	    fmt.Printf("%s N=%d mean=%.3fs\n", s.Strategy, s.N, s.MeanS)
//	}
//
// Cache solved plans across runs:
//
//	store, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().PlanKey(eng.Name(), cfg.Name, p)
//	data, ok, _ := store.Get(ctx, key)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...               # All tests
//	go test ./pkg/deepening/...     # Specific package
//	go test -run Example            # Examples only
//
// [perm]: https://pkg.go.dev/github.com/matzehuels/swapbench/pkg/perm
// [perm.Plan]: https://pkg.go.dev/github.com/matzehuels/swapbench/pkg/perm#Plan
// [strategy]: https://pkg.go.dev/github.com/matzehuels/swapbench/pkg/strategy
// [engine]: https://pkg.go.dev/github.com/matzehuels/swapbench/pkg/engine
// [engine.Native]: https://pkg.go.dev/github.com/matzehuels/swapbench/pkg/engine#Native
// [engine.MiniZinc]: https://pkg.go.dev/github.com/matzehuels/swapbench/pkg/engine#MiniZinc
// [deepening]: https://pkg.go.dev/github.com/matzehuels/swapbench/pkg/deepening
// [bench]: https://pkg.go.dev/github.com/matzehuels/swapbench/pkg/bench
// [cache]: https://pkg.go.dev/github.com/matzehuels/swapbench/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/swapbench/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/swapbench/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/swapbench/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/swapbench/pkg/buildinfo
package pkg
