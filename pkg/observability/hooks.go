// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about engine queries, benchmark sweeps, and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSolverHooks(&mySolverHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Solver().OnQueryStart(ctx, engine, strategy, n, k)
//	// ... run the engine ...
//	observability.Solver().OnQueryComplete(ctx, engine, strategy, n, k, status, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Solver Hooks
// =============================================================================

// SolverHooks receives events from the deepening controller and its engines.
type SolverHooks interface {
	// Query events, one pair per engine call
	OnQueryStart(ctx context.Context, engine, strategy string, n, k int)
	OnQueryComplete(ctx context.Context, engine, strategy string, n, k int, status string, duration time.Duration, err error)

	// Run events, one pair per deepening run
	OnRunStart(ctx context.Context, strategy string, n int)
	OnRunComplete(ctx context.Context, strategy string, n int, state string, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Sweep Hooks
// =============================================================================

// SweepHooks receives events from benchmark sweep execution.
type SweepHooks interface {
	// OnSweepStart records the start of a sweep with its total run count.
	OnSweepStart(ctx context.Context, runID string, totalRuns int)

	// OnRunRecorded records one finished (strategy, size, instance) run.
	OnRunRecorded(ctx context.Context, runID, strategy string, n, instance int, status string, duration time.Duration)

	// OnSweepComplete records the end of a sweep.
	OnSweepComplete(ctx context.Context, runID string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSolverHooks is a no-op implementation of SolverHooks.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnQueryStart(context.Context, string, string, int, int) {}
func (NoopSolverHooks) OnQueryComplete(context.Context, string, string, int, int, string, time.Duration, error) {
}
func (NoopSolverHooks) OnRunStart(context.Context, string, int)                          {}
func (NoopSolverHooks) OnRunComplete(context.Context, string, int, string, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopSweepHooks is a no-op implementation of SweepHooks.
type NoopSweepHooks struct{}

func (NoopSweepHooks) OnSweepStart(context.Context, string, int) {}
func (NoopSweepHooks) OnRunRecorded(context.Context, string, string, int, int, string, time.Duration) {
}
func (NoopSweepHooks) OnSweepComplete(context.Context, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	solverHooks SolverHooks = NoopSolverHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	sweepHooks  SweepHooks  = NoopSweepHooks{}
	hooksMu     sync.RWMutex
)

// SetSolverHooks registers custom solver hooks.
// This should be called once at application startup before any runs.
func SetSolverHooks(h SolverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solverHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetSweepHooks registers custom sweep hooks.
// This should be called once at application startup before any sweeps.
func SetSweepHooks(h SweepHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sweepHooks = h
	}
}

// Solver returns the registered solver hooks.
func Solver() SolverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solverHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Sweep returns the registered sweep hooks.
func Sweep() SweepHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sweepHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	solverHooks = NoopSolverHooks{}
	cacheHooks = NoopCacheHooks{}
	sweepHooks = NoopSweepHooks{}
}
