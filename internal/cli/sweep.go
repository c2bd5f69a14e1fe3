package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swapbench/pkg/bench"
	"github.com/matzehuels/swapbench/pkg/config"
	"github.com/matzehuels/swapbench/pkg/engine"
	"github.com/matzehuels/swapbench/pkg/errors"
	"github.com/matzehuels/swapbench/pkg/strategy"
)

// sweepCommand creates the sweep command running the full benchmark.
func (c *CLI) sweepCommand() *cobra.Command {
	var (
		configPath    string
		sizesStr      string
		instances     int
		strategiesStr string
		engineName    string
		timeoutSec    int
		workers       int
		seed          uint64
		outputDir     string
		plain         bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Benchmark every strategy against generated instances",
		Long: `Benchmark search strategies against randomly generated permutations.

For every (size, instance) pair the sweep generates one vector and hands it
to every strategy, so strategies are compared on identical inputs. Each run
deepens from the lower bound until the engine finds a plan or the budget
runs out.

Results are written as a records CSV, a summary CSV, and one human-readable
report per run, grouped by strategy. Settings come from a TOML config file,
command-line flags, or both; flags win where both are given.`,
		Example: `  # Full sweep with catalog defaults (sizes 5..30, 10 instances each)
  swapbench sweep

  # Quick native-engine sweep of two strategies
  swapbench sweep --sizes 5,8 --instances 3 --strategies default,firstfail

  # From a config file, overriding the worker count
  swapbench sweep --config sweep.toml --workers 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.Sweep{}
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			overrides := config.Sweep{
				InstancesPerSize: instances,
				TimeoutSeconds:   timeoutSec,
				Engine:           engineName,
				Workers:          workers,
				Seed:             seed,
				OutputDir:        outputDir,
			}
			if sizesStr != "" {
				sizes, err := parseSizes(sizesStr)
				if err != nil {
					return err
				}
				overrides.Sizes = sizes
			}
			if strategiesStr != "" {
				overrides.Strategies = splitList(strategiesStr)
			}

			mergeSweepConfig(cfg, overrides, cmd.Flags().Changed)
			if err := cfg.Validate(); err != nil {
				return err
			}

			return c.runSweep(cmd.Context(), cfg, plain)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "TOML sweep config file")
	cmd.Flags().StringVar(&sizesStr, "sizes", "", "comma-separated instance sizes (default 5,10,15,20,25,30)")
	cmd.Flags().IntVar(&instances, "instances", 0, "instances generated per size (default 10)")
	cmd.Flags().StringVar(&strategiesStr, "strategies", "", "comma-separated strategy names (default: whole catalog)")
	cmd.Flags().StringVar(&engineName, "engine", "", "engine: native (default), minizinc")
	cmd.Flags().IntVar(&timeoutSec, "timeout", 0, "per-run budget in seconds (default 300)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (default 1)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "instance generation seed (default 42)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default results)")
	cmd.Flags().BoolVar(&plain, "plain", false, "log lines instead of the live dashboard")

	return cmd
}

// mergeSweepConfig folds flag values over the file config. Only flags the
// user actually set override the file; everything else keeps the file value,
// and whatever is still zero picks up the sweep defaults later.
func mergeSweepConfig(cfg *config.Sweep, flags config.Sweep, changed func(name string) bool) {
	if changed("sizes") {
		cfg.Sizes = flags.Sizes
	}
	if changed("instances") {
		cfg.InstancesPerSize = flags.InstancesPerSize
	}
	if changed("timeout") {
		cfg.TimeoutSeconds = flags.TimeoutSeconds
	}
	if changed("strategies") {
		cfg.Strategies = flags.Strategies
	}
	if changed("engine") {
		cfg.Engine = flags.Engine
	}
	if changed("workers") {
		cfg.Workers = flags.Workers
	}
	if changed("seed") {
		cfg.Seed = flags.Seed
	}
	if changed("output") {
		cfg.OutputDir = flags.OutputDir
	}
}

// parseSizes parses a size list like "5,10,15" into a slice of ints.
func parseSizes(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid size %q", part)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

// splitList splits a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// resolveStrategies maps configured names onto catalog entries. An empty
// list selects the whole catalog.
func resolveStrategies(names []string) ([]strategy.Config, error) {
	configs := make([]strategy.Config, 0, len(names))
	for _, name := range names {
		cfg, err := strategy.Lookup(name)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// runSweep executes the benchmark and writes its outputs.
func (c *CLI) runSweep(ctx context.Context, cfg *config.Sweep, plain bool) error {
	logger := loggerFromContext(ctx)

	engineName := cfg.Engine
	if engineName == "" {
		engineName = engine.NameNative
	}
	eng, err := engine.New(engineName, engine.Options{Seed: cfg.Seed})
	if err != nil {
		return err
	}

	strategies, err := resolveStrategies(cfg.Strategies)
	if err != nil {
		return err
	}

	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = defaultOutputDir
	}

	opts := bench.Options{
		Sizes:      cfg.Sizes,
		PerSize:    cfg.InstancesPerSize,
		Strategies: strategies,
		Engine:     eng,
		Timeout:    cfg.Timeout(),
		Seed:       cfg.Seed,
		Workers:    cfg.Workers,
	}
	interactive := !plain && isatty.IsTerminal(os.Stderr.Fd())
	if !interactive {
		opts.Logger = logger
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	total := len(opts.Sizes) * opts.PerSize * len(opts.Strategies)

	var res *bench.SweepResult
	var runErr error
	if interactive {
		res, runErr = c.runSweepDashboard(ctx, opts, total)
	} else {
		prog := newProgress(logger)
		res, runErr = bench.Run(ctx, opts)
		if res != nil {
			prog.done(fmt.Sprintf("Recorded %d runs", len(res.Records)))
		}
	}
	if res == nil {
		return runErr
	}

	if len(res.Records) > 0 {
		written, err := writeSweepOutputs(outputDir, res)
		if err != nil {
			return err
		}

		printSummaryTable(res.Summaries)
		printNewline()
		solved := 0
		for _, rec := range res.Records {
			if rec.Status == bench.StatusSolved {
				solved++
			}
		}
		printSuccess("Sweep %s: %d/%d runs solved in %s",
			res.RunID, solved, len(res.Records), res.Elapsed.Round(time.Second))
		for _, path := range written {
			printFile(path)
		}
		printDetail("Per-run reports under %s, one directory per strategy", outputDir)
	}

	if runErr != nil {
		printWarning("Sweep stopped early: %v", runErr)
		return runErr
	}
	return nil
}

// runSweepDashboard runs the sweep behind the live dashboard. Quitting the
// dashboard cancels the sweep; runs recorded before the cut are returned.
func (c *CLI) runSweepDashboard(ctx context.Context, opts bench.Options, total int) (*bench.SweepResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := tea.NewProgram(newSweepModel(total), tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	opts.OnRecord = func(rec bench.Record) {
		prog.Send(runRecordedMsg{rec: rec})
	}

	var res *bench.SweepResult
	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		res, runErr = bench.Run(ctx, opts)
		prog.Send(sweepDoneMsg{err: runErr})
	}()

	_, teaErr := prog.Run()
	cancel()
	<-done

	if teaErr != nil && ctx.Err() == nil {
		return res, teaErr
	}
	return res, runErr
}

// =============================================================================
// Outputs
// =============================================================================

// writeSweepOutputs writes the records CSV, the summary CSV, and one
// human-readable report per run, grouped into a directory per strategy.
// It returns the paths of the CSV files.
func writeSweepOutputs(dir string, res *bench.SweepResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	recordsPath := filepath.Join(dir, "records.csv")
	if err := writeCSVFile(recordsPath, func(w io.Writer) error {
		return bench.WriteRecordsCSV(w, res.Records)
	}); err != nil {
		return nil, err
	}

	summaryPath := filepath.Join(dir, "summary.csv")
	if err := writeCSVFile(summaryPath, func(w io.Writer) error {
		return bench.WriteSummariesCSV(w, res.Summaries)
	}); err != nil {
		return nil, err
	}

	for _, rec := range res.Records {
		stratDir := filepath.Join(dir, rec.Strategy)
		if err := os.MkdirAll(stratDir, 0o755); err != nil {
			return nil, fmt.Errorf("create strategy dir: %w", err)
		}
		name := fmt.Sprintf("result_%02d_N%d.txt", rec.Instance+1, rec.N)
		if err := os.WriteFile(filepath.Join(stratDir, name), []byte(instanceReport(rec)), 0o644); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
	}

	return []string{recordsPath, summaryPath}, nil
}

// writeCSVFile creates path and streams CSV into it.
func writeCSVFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// instanceReport renders one run as a human-readable report file.
func instanceReport(rec bench.Record) string {
	var b strings.Builder
	bar := strings.Repeat("=", 60)
	fmt.Fprintf(&b, "%s\n", bar)
	fmt.Fprintf(&b, "RUN %s | instance %02d | N=%d | strategy %s\n", rec.RunID, rec.Instance+1, rec.N, rec.Strategy)
	fmt.Fprintf(&b, "%s\n\n", bar)
	fmt.Fprintf(&b, "Input: %s\n\n", rec.Perm)

	switch rec.Status {
	case bench.StatusSolved:
		fmt.Fprintf(&b, "Status: solved\nK: %d\nTime: %.4fs\n", rec.K, rec.Elapsed.Seconds())
		fmt.Fprintf(&b, "%s\nPlan:\n", strings.Repeat("-", 40))
		for _, line := range planSteps(rec.Perm, rec.Plan) {
			fmt.Fprintf(&b, "%s\n", line)
		}
	case bench.StatusTimeout:
		fmt.Fprintf(&b, "Status: timeout\nGave up after %.1fs.\n", rec.Elapsed.Seconds())
	default:
		fmt.Fprintf(&b, "Status: error\n")
		if rec.Err != nil {
			fmt.Fprintf(&b, "%v\n", rec.Err)
		}
	}
	return b.String()
}

// printSummaryTable renders per-(strategy, N) aggregates as a table. Timing
// columns cover solved runs only.
func printSummaryTable(sums []bench.Summary) {
	if len(sums) == 0 {
		return
	}

	rows := make([][]string, len(sums))
	for i, s := range sums {
		rows[i] = []string{
			s.Strategy,
			strconv.Itoa(s.N),
			fmt.Sprintf("%d/%d", s.Solved, s.Attempts),
			fmt.Sprintf("%.3f", s.MeanS),
			fmt.Sprintf("%.3f", s.MedianS),
			fmt.Sprintf("%.3f", s.StddevS),
			fmt.Sprintf("%.3f", s.MinS),
			fmt.Sprintf("%.3f", s.MaxS),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("Strategy", "N", "Solved", "Mean (s)", "Median (s)", "Stddev (s)", "Min (s)", "Max (s)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if col != 2 || row >= len(sums) {
				return lipgloss.NewStyle()
			}
			s := sums[row]
			switch {
			case s.Solved == s.Attempts:
				return StyleSuccess
			case s.Solved == 0:
				return styleIconError
			default:
				return StyleWarning
			}
		})

	fmt.Println(StyleTitle.Render("Summary"))
	fmt.Println(t.Render())
}
