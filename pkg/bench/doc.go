// Package bench runs strategy benchmarks and aggregates their results.
//
// # Overview
//
// A sweep expands a parameter grid (instance sizes, instances per size,
// strategies) into individual runs. Every strategy solves the exact same
// instance vectors, so per-strategy timings are directly comparable. Runs
// execute on a bounded worker pool and append to a shared Aggregator.
//
// # Records and summaries
//
// A Record is one measurement: (strategy, n, instance) plus the outcome.
// Summaries group records by (strategy, n) and reduce the solved timings
// with standard statistics. Both export to CSV with a stable column set;
// the schema_version column guards comparisons across tool versions.
package bench
