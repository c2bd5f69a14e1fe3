// Package strategy defines the catalog of search strategies the benchmark
// compares. Each strategy names a variable-selection heuristic, a
// value-selection heuristic, and a restart schedule; engines translate the
// descriptor into whatever their search machinery understands.
//
// The catalog is immutable. Strategies are data, not behavior: two runs
// handed the same descriptor must mean the same search configuration, or
// results stop being comparable across engines and time.
package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/swapbench/pkg/errors"
)

// RestartPolicy names a restart schedule family.
type RestartPolicy string

// Restart schedule families.
const (
	RestartLuby      RestartPolicy = "luby"
	RestartGeometric RestartPolicy = "geometric"
	RestartLinear    RestartPolicy = "linear"
	RestartNone      RestartPolicy = "none"
)

// Restart describes a restart schedule. Scale is the luby/linear unit or
// the geometric starting budget; Base is the geometric growth factor and
// is zero for every other policy.
type Restart struct {
	Policy RestartPolicy
	Scale  int
	Base   float64
}

// Annotation renders the restart schedule as a MiniZinc solve annotation.
// RestartNone renders as the empty string.
func (r Restart) Annotation() string {
	switch r.Policy {
	case RestartLuby:
		return fmt.Sprintf("restart_luby(%d)", r.Scale)
	case RestartGeometric:
		return fmt.Sprintf("restart_geometric(%g, %d)", r.Base, r.Scale)
	case RestartLinear:
		return fmt.Sprintf("restart_linear(%d)", r.Scale)
	default:
		return ""
	}
}

// Config is one entry of the strategy catalog. Empty heuristics mean the
// engine searches with its own defaults.
type Config struct {
	Name        string
	Description string
	VarHeur     string // variable selection (first_fail, dom_w_deg, ...)
	ValHeur     string // value selection (indomain_random, indomain_split, ...)
	Restart     Restart
}

// Annotation renders the MiniZinc solve item for this strategy, searching
// over the named decision variable array.
func (c Config) Annotation(searchVars string) string {
	var b strings.Builder
	b.WriteString("solve")
	if ann := c.Restart.Annotation(); ann != "" {
		b.WriteString(" :: ")
		b.WriteString(ann)
	}
	if c.VarHeur != "" {
		fmt.Fprintf(&b, " :: int_search(%s, %s, %s, complete)", searchVars, c.VarHeur, c.ValHeur)
	}
	b.WriteString(" satisfy;")
	return b.String()
}

var luby250 = Restart{Policy: RestartLuby, Scale: 250}

// catalog holds every known strategy in presentation order. The set is
// fixed: benchmarks compare these twelve configurations against each other.
var catalog = []Config{
	{
		Name:        "default",
		Description: "engine default search under Luby restarts",
		Restart:     luby250,
	},
	{
		Name:        "firstfail",
		Description: "smallest domain first, random values",
		VarHeur:     "first_fail",
		ValHeur:     "indomain_random",
		Restart:     luby250,
	},
	{
		Name:        "domwdeg",
		Description: "domain size over weighted degree, random values",
		VarHeur:     "dom_w_deg",
		ValHeur:     "indomain_random",
		Restart:     luby250,
	},
	{
		Name:        "smallest",
		Description: "smallest value in domain first, minimum values",
		VarHeur:     "smallest",
		ValHeur:     "indomain_min",
		Restart:     luby250,
	},
	{
		Name:        "mostconstrained",
		Description: "most constrained variable first, random values",
		VarHeur:     "most_constrained",
		ValHeur:     "indomain_random",
		Restart:     luby250,
	},
	{
		Name:        "maxregret",
		Description: "largest difference of two smallest domain values, minimum values",
		VarHeur:     "max_regret",
		ValHeur:     "indomain_min",
		Restart:     luby250,
	},
	{
		Name:        "antifirstfail",
		Description: "largest domain first, random values",
		VarHeur:     "anti_first_fail",
		ValHeur:     "indomain_random",
		Restart:     luby250,
	},
	{
		Name:        "domwdeg_split",
		Description: "domain size over weighted degree, domain bisection",
		VarHeur:     "dom_w_deg",
		ValHeur:     "indomain_split",
		Restart:     luby250,
	},
	{
		Name:        "firstfail_split",
		Description: "smallest domain first, domain bisection",
		VarHeur:     "first_fail",
		ValHeur:     "indomain_split",
		Restart:     luby250,
	},
	{
		Name:        "geometric",
		Description: "smallest domain first under geometric restarts",
		VarHeur:     "first_fail",
		ValHeur:     "indomain_random",
		Restart:     Restart{Policy: RestartGeometric, Base: 1.5, Scale: 100},
	},
	{
		Name:        "linear",
		Description: "smallest domain first under linear restarts",
		VarHeur:     "first_fail",
		ValHeur:     "indomain_random",
		Restart:     Restart{Policy: RestartLinear, Scale: 100},
	},
	{
		Name:        "norestart",
		Description: "smallest domain first, no restarts",
		VarHeur:     "first_fail",
		ValHeur:     "indomain_random",
		Restart:     Restart{Policy: RestartNone},
	},
}

// All returns every catalog entry in presentation order.
func All() []Config {
	out := make([]Config, len(catalog))
	copy(out, catalog)
	return out
}

// Names returns every strategy name in alphabetical order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, c := range catalog {
		names[i] = c.Name
	}
	sort.Strings(names)
	return names
}

// Lookup returns the catalog entry with the given name.
func Lookup(name string) (Config, error) {
	for _, c := range catalog {
		if c.Name == name {
			return c, nil
		}
	}
	return Config{}, errors.New(errors.ErrCodeUnknownStrategy,
		"unknown strategy %q (known: %s)", name, strings.Join(Names(), ", "))
}
