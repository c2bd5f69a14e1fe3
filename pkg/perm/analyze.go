package perm

// Inversions returns the number of pairs (i, j) with i < j and p[i] > p[j].
// The identity has zero inversions; the reversal of 1..n has n*(n-1)/2.
func (p Permutation) Inversions() int {
	count := 0
	for i := 0; i < len(p); i++ {
		for j := i + 1; j < len(p); j++ {
			if p[i] > p[j] {
				count++
			}
		}
	}
	return count
}

// Cycles returns the cycle decomposition of p. Each cycle lists the orbit
// of its smallest element under the mapping i -> p[i], and cycles are
// ordered by smallest element. Fixed points appear as singleton cycles.
func (p Permutation) Cycles() [][]int {
	visited := make([]bool, len(p))
	var cycles [][]int

	for i := range p {
		if visited[i] {
			continue
		}
		var cycle []int
		for j := i; !visited[j]; j = p[j] - 1 {
			visited[j] = true
			cycle = append(cycle, j+1)
		}
		cycles = append(cycles, cycle)
	}
	return cycles
}

// CycleCount returns the number of cycles in p, counting fixed points.
func (p Permutation) CycleCount() int {
	visited := make([]bool, len(p))
	count := 0

	for i := range p {
		if visited[i] {
			continue
		}
		count++
		for j := i; !visited[j]; j = p[j] - 1 {
			visited[j] = true
		}
	}
	return count
}

// LowerBound returns the minimum number of swaps that sorts p: the length
// of p minus its cycle count. Each swap joins or splits cycles by exactly
// one, and the identity has n cycles, so no shorter plan can exist. The
// bound is zero exactly when p is sorted.
func (p Permutation) LowerBound() int {
	return len(p) - p.CycleCount()
}

// Parity returns the parity of p: the inversion count mod 2. Every swap
// flips it, so a plan sorting p needs a length with the same parity as
// LowerBound. LowerBound()%2 == Parity() holds for every valid permutation.
func (p Permutation) Parity() int {
	return p.Inversions() % 2
}
