// Package cli implements the swapbench command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swapbench/pkg/buildinfo"
	"github.com/matzehuels/swapbench/pkg/cache"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "swapbench"

	// defaultSolveTimeout is the default per-instance solve budget (seconds).
	defaultSolveTimeout = 300

	// defaultRandomN is the length of the random instance solve generates
	// when no permutation is given.
	defaultRandomN = 10

	// defaultOutputDir is where sweep results land unless configured.
	defaultOutputDir = "results"

	// redisEnvVar optionally points the plan cache at a shared redis server.
	redisEnvVar = "SWAPBENCH_REDIS_URL"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "swapbench",
		Short: "Swapbench finds minimum swap sequences and benchmarks search strategies",
		Long: `Swapbench sorts permutations in a provably minimal number of swaps.

It derives the minimum plan length from the cycle structure of the input,
asks a constraint engine for a plan of exactly that length, and benchmarks
the catalog of search strategies against each other on generated instances.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.sweepCommand())
	root.AddCommand(c.strategiesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Plan Cache Factory
// =============================================================================

// newPlanCache picks the plan cache backend: a null cache when disabled,
// redis when SWAPBENCH_REDIS_URL is set, a file cache under the user cache
// directory otherwise. An unavailable cache directory degrades to the null
// cache; solving works without one.
//
// Redis servers are shared with other tools, so keys there carry the
// application prefix. The file cache lives in a swapbench-private directory
// and needs none.
func newPlanCache(noCache bool) (cache.Cache, cache.Keyer, error) {
	keyer := cache.NewDefaultKeyer()
	if noCache {
		return cache.NewNullCache(), keyer, nil
	}
	if url := os.Getenv(redisEnvVar); url != "" {
		store, err := cache.NewRedisCache(url)
		return store, cache.NewScopedKeyer(keyer, appName+":"), err
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), keyer, nil
	}
	store, err := cache.NewFileCache(dir)
	return store, keyer, err
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/swapbench/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
