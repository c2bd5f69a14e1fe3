package bench

import (
	"sort"
	"sync"

	"github.com/montanaflynn/stats"

	"github.com/matzehuels/swapbench/pkg/strategy"
)

// Aggregator collects records from concurrent benchmark runs. The zero
// value is ready to use; all methods are safe for concurrent callers.
type Aggregator struct {
	mu      sync.Mutex
	records []Record
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator { return &Aggregator{} }

// Record appends one measurement.
func (a *Aggregator) Record(rec Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, rec)
}

// Records returns a copy of every recorded measurement, in arrival order.
func (a *Aggregator) Records() []Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Record, len(a.records))
	copy(out, a.records)
	return out
}

// Len returns the number of recorded measurements.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Summary reduces every record sharing (strategy, n). The timing statistics
// cover solved runs only; timeouts and errors count into Attempts but would
// otherwise skew the timings with budget-shaped values.
type Summary struct {
	Strategy    string
	N           int
	Attempts    int
	Solved      int
	SuccessRate float64
	MeanS       float64
	MedianS     float64
	StddevS     float64
	MinS        float64
	MaxS        float64
	KDist       map[int]int // minimal plan length -> solved count
}

// Summarize groups records by (strategy, n). Groups come back in catalog
// order, then ascending n, so repeated exports diff cleanly.
func (a *Aggregator) Summarize() []Summary {
	type key struct {
		strategy string
		n        int
	}

	groups := make(map[key][]Record)
	for _, rec := range a.Records() {
		k := key{rec.Strategy, rec.N}
		groups[k] = append(groups[k], rec)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	rank := catalogRank()
	sort.Slice(keys, func(i, j int) bool {
		ri, iKnown := rank[keys[i].strategy]
		rj, jKnown := rank[keys[j].strategy]
		switch {
		case iKnown && jKnown && ri != rj:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		case !iKnown && keys[i].strategy != keys[j].strategy:
			return keys[i].strategy < keys[j].strategy
		}
		return keys[i].n < keys[j].n
	})

	out := make([]Summary, 0, len(keys))
	for _, k := range keys {
		out = append(out, summarizeGroup(k.strategy, k.n, groups[k]))
	}
	return out
}

func summarizeGroup(strategyName string, n int, recs []Record) Summary {
	s := Summary{
		Strategy: strategyName,
		N:        n,
		Attempts: len(recs),
		KDist:    make(map[int]int),
	}

	var solved []float64
	for _, rec := range recs {
		if rec.Status != StatusSolved {
			continue
		}
		s.Solved++
		s.KDist[rec.K]++
		solved = append(solved, rec.Elapsed.Seconds())
	}
	if s.Attempts > 0 {
		s.SuccessRate = float64(s.Solved) / float64(s.Attempts)
	}
	if len(solved) == 0 {
		return s
	}

	// stats errors only on empty input, which is excluded above.
	s.MeanS, _ = stats.Mean(solved)
	s.MedianS, _ = stats.Median(solved)
	s.StddevS, _ = stats.StandardDeviation(solved)
	s.MinS, _ = stats.Min(solved)
	s.MaxS, _ = stats.Max(solved)
	return s
}

// catalogRank maps strategy names to their catalog position. Names outside
// the catalog sort after it, alphabetically.
func catalogRank() map[string]int {
	rank := make(map[string]int)
	for i, cfg := range strategy.All() {
		rank[cfg.Name] = i
	}
	return rank
}
