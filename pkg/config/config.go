// Package config loads benchmark sweep descriptions from TOML files.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/swapbench/pkg/engine"
	"github.com/matzehuels/swapbench/pkg/errors"
	"github.com/matzehuels/swapbench/pkg/strategy"
)

// Sweep describes a benchmark sweep. Zero-valued fields mean "use the
// default"; command-line flags override file values.
type Sweep struct {
	Sizes            []int    `toml:"sizes"`
	InstancesPerSize int      `toml:"instances_per_size"`
	TimeoutSeconds   int      `toml:"timeout_seconds"`
	Strategies       []string `toml:"strategies"`
	Engine           string   `toml:"engine"`
	Workers          int      `toml:"workers"`
	Seed             uint64   `toml:"seed"`
	OutputDir        string   `toml:"output_dir"`
}

// Load reads and validates a sweep description from a TOML file.
func Load(path string) (*Sweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading sweep config %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates a TOML sweep description.
func Parse(data []byte) (*Sweep, error) {
	var s Sweep
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing sweep config")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects values no sweep can run with. It does not apply
// defaults; those belong to the sweep options.
func (s *Sweep) Validate() error {
	for _, n := range s.Sizes {
		if n < 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "instance size %d is not positive", n)
		}
	}
	if s.InstancesPerSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "instances_per_size %d is negative", s.InstancesPerSize)
	}
	if s.TimeoutSeconds < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timeout_seconds %d is negative", s.TimeoutSeconds)
	}
	if s.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers %d is negative", s.Workers)
	}
	for _, name := range s.Strategies {
		if _, err := strategy.Lookup(name); err != nil {
			return err
		}
	}
	if s.Engine != "" {
		if _, err := engine.New(s.Engine, engine.Options{}); err != nil {
			return err
		}
	}
	return nil
}

// Timeout returns the configured per-run budget as a duration.
func (s *Sweep) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}
