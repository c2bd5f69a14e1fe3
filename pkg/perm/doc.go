// Package perm provides permutation analysis for the minimum-swap sorting
// problem.
//
// # Overview
//
// A [Permutation] holds the values 1..n in one-line notation: p[i] is the
// value at position i+1. The package computes the two quantities every solve
// starts from, the inversion count and the cycle decomposition. Sorting a
// permutation takes at least n minus the number of cycles swaps, and every
// swap flips the parity of the inversion count, so any feasible plan length
// shares the parity of that lower bound. [LowerBound] and [Parity] expose
// both facts; they hold for every valid permutation and the rest of the
// system leans on them.
//
// # Plans
//
// A [Plan] is an ordered list of position [Swap]s claimed to sort a given
// start permutation. [Plan.Validate] replays the swaps and checks the
// soundness bar for accepting a solution: ordered in-range positions and a
// sorted end state. [Plan.ValidateStrict] additionally enforces the engine
// model's move rule, at least one value placed into its home position per
// step. Solutions coming back from constraint engines are never trusted
// without one of these checks.
package perm
