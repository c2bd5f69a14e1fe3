package bench

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/swapbench/pkg/deepening"
	"github.com/matzehuels/swapbench/pkg/engine"
	"github.com/matzehuels/swapbench/pkg/errors"
	"github.com/matzehuels/swapbench/pkg/observability"
	"github.com/matzehuels/swapbench/pkg/perm"
	"github.com/matzehuels/swapbench/pkg/strategy"
)

// Default sweep parameters.
const (
	// DefaultPerSize is the default number of instances per size.
	DefaultPerSize = 10
	// DefaultTimeout is the default per-run budget.
	DefaultTimeout = 300 * time.Second
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)
)

// DefaultSizes returns the default instance sizes.
func DefaultSizes() []int { return []int{5, 10, 15, 20, 25, 30} }

// Options configures a sweep.
type Options struct {
	// Sizes are the instance sizes to benchmark.
	Sizes []int
	// PerSize is the number of instances generated per size.
	PerSize int
	// Strategies are the configurations to compare. Defaults to the whole
	// catalog.
	Strategies []strategy.Config
	// Engine answers the plan-length queries. Required.
	Engine engine.Engine
	// Timeout bounds each run; it also caps every engine query inside it.
	Timeout time.Duration
	// Seed drives instance generation. Equal seeds generate equal vectors.
	Seed uint64
	// Workers bounds concurrent runs. The default of 1 keeps timings free
	// of scheduling contention; raise it when throughput matters more.
	Workers int
	// Logger receives sweep progress. Defaults to a silent logger.
	Logger *log.Logger
	// OnRecord, when set, is called after every recorded run. Callbacks
	// may arrive from concurrent workers.
	OnRecord func(Record)
}

// Validate applies defaults and checks the options.
func (o *Options) Validate() error {
	if o.Engine == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "sweep requires an engine")
	}
	if len(o.Sizes) == 0 {
		o.Sizes = DefaultSizes()
	}
	for _, n := range o.Sizes {
		if n < 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "instance size %d is not positive", n)
		}
	}
	if o.PerSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "instances per size %d is negative", o.PerSize)
	}
	if o.PerSize == 0 {
		o.PerSize = DefaultPerSize
	}
	if len(o.Strategies) == 0 {
		o.Strategies = strategy.All()
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers %d is negative", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SweepResult is everything a finished sweep produced.
type SweepResult struct {
	RunID     string
	Records   []Record
	Summaries []Summary
	Elapsed   time.Duration
}

// Run executes the sweep: every strategy solves every generated instance,
// on a pool of Workers goroutines. On cancellation it returns the context
// error together with the records measured before the cut; in-flight runs
// are abandoned, not recorded.
func Run(ctx context.Context, opts Options) (*SweepResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.New().String()[:8]
	instances := Instances(opts.Sizes, opts.PerSize, opts.Seed)

	type job struct {
		cfg      strategy.Config
		n        int
		instance int
		vec      perm.Permutation
	}
	var jobs []job
	for _, n := range opts.Sizes {
		for i, vec := range instances[n] {
			for _, cfg := range opts.Strategies {
				jobs = append(jobs, job{cfg: cfg, n: n, instance: i, vec: vec})
			}
		}
	}

	opts.Logger.Info("starting sweep",
		"run_id", runID,
		"engine", opts.Engine.Name(),
		"sizes", opts.Sizes,
		"instances_per_size", opts.PerSize,
		"strategies", len(opts.Strategies),
		"total_runs", len(jobs),
		"workers", opts.Workers,
		"timeout", opts.Timeout)
	observability.Sweep().OnSweepStart(ctx, runID, len(jobs))

	agg := NewAggregator()
	ctrl := deepening.NewController(opts.Engine, opts.Timeout, opts.Timeout, opts.Logger)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, j := range jobs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			res := ctrl.Run(gctx, j.vec, j.cfg)
			if gctx.Err() != nil {
				// Cut off mid-run; the timing is not a measurement.
				return gctx.Err()
			}

			rec := Record{
				RunID:    runID,
				Strategy: j.cfg.Name,
				N:        j.n,
				Instance: j.instance,
				Perm:     j.vec,
				Elapsed:  res.Elapsed,
				Status:   recordStatus(res),
				Err:      res.Err,
			}
			if rec.Status == StatusSolved {
				rec.K = res.K
				rec.Plan = res.Plan
			}
			agg.Record(rec)

			switch rec.Status {
			case StatusSolved:
				opts.Logger.Info("run solved",
					"strategy", rec.Strategy, "n", rec.N, "instance", rec.Instance,
					"k", rec.K, "elapsed", rec.Elapsed)
			case StatusTimeout:
				opts.Logger.Warn("run timed out",
					"strategy", rec.Strategy, "n", rec.N, "instance", rec.Instance,
					"elapsed", rec.Elapsed)
			case StatusError:
				opts.Logger.Error("run failed",
					"strategy", rec.Strategy, "n", rec.N, "instance", rec.Instance,
					"reason", res.Reason, "error", res.Err)
			}
			observability.Sweep().OnRunRecorded(gctx, runID,
				rec.Strategy, rec.N, rec.Instance, string(rec.Status), rec.Elapsed)
			if opts.OnRecord != nil {
				opts.OnRecord(rec)
			}
			return nil
		})
	}

	err := g.Wait()
	result := &SweepResult{
		RunID:     runID,
		Records:   agg.Records(),
		Summaries: agg.Summarize(),
		Elapsed:   time.Since(start),
	}
	observability.Sweep().OnSweepComplete(ctx, runID, result.Elapsed, err)

	if err != nil {
		opts.Logger.Warn("sweep aborted",
			"run_id", runID, "recorded", len(result.Records), "error", err)
		return result, err
	}
	opts.Logger.Info("sweep complete",
		"run_id", runID, "recorded", len(result.Records), "elapsed", result.Elapsed)
	return result, nil
}
