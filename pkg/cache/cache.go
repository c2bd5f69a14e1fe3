// Package cache provides plan caching for the solve path.
//
// A solved instance is a mathematical fact: the same permutation solved by
// the same engine under the same strategy always yields a plan of the same
// length. The cache keeps those answers so repeated solves return
// immediately. Benchmark sweeps never consult it, since there the elapsed
// time is the product.
//
// Backends: file (default for the CLI), Redis (shared between machines),
// and null (caching disabled).
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/swapbench/pkg/perm"
)

// Cache stores opaque payloads under string keys.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for solver artifacts.
type Keyer interface {
	// PlanKey identifies a solved plan: the engine, the strategy, and the
	// exact start permutation determine the answer.
	PlanKey(engine, strategy string, start perm.Permutation) string
}

// DefaultKeyer hashes the identifying parts into stable keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// PlanKey generates a key for a solved plan.
func (k *DefaultKeyer) PlanKey(engine, strategy string, start perm.Permutation) string {
	return hashKey("plan", engine, strategy, start.String())
}
