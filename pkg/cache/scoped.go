package cache

import "github.com/matzehuels/swapbench/pkg/perm"

// ScopedKeyer wraps a Keyer with a prefix, isolating key namespaces when
// several tools or test runs share one backend.
//
// Example usage:
//
//	// Keys private to one experiment
//	expKeyer := NewScopedKeyer(NewDefaultKeyer(), "exp:42:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PlanKey generates a prefixed key for a solved plan.
func (k *ScopedKeyer) PlanKey(engine, strategy string, start perm.Permutation) string {
	return k.prefix + k.inner.PlanKey(engine, strategy, start)
}
