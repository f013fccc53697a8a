package eclust

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Initializer produces a starting partition of the points behind km into k
// clusters. Implementations draw all randomness from rng.
//
// Built-in strategies: RandomInit, KMeansPlusPlusInit, SpectralInit.
type Initializer interface {
	Initialize(km *KernelMatrix, k int, rng *rand.Rand) ([]int, error)
}

// RandomInit draws k distinct seed points uniformly without replacement and
// assigns every other point to its nearest seed.
type RandomInit struct{}

func (RandomInit) Initialize(km *KernelMatrix, k int, rng *rand.Rand) ([]int, error) {
	if err := checkInitArgs(km, k); err != nil {
		return nil, err
	}
	seeds := rng.Perm(km.N())[:k]
	return assignToSeeds(km, seeds), nil
}

// KMeansPlusPlusInit picks the first seed uniformly and each subsequent seed
// with probability proportional to its squared kernel distance from the
// nearest seed already chosen. Remaining points go to their nearest seed.
type KMeansPlusPlusInit struct{}

func (KMeansPlusPlusInit) Initialize(km *KernelMatrix, k int, rng *rand.Rand) ([]int, error) {
	if err := checkInitArgs(km, k); err != nil {
		return nil, err
	}
	return assignToSeeds(km, kmeansPPSeeds(km.N(), k, km.At, rng)), nil
}

func checkInitArgs(km *KernelMatrix, k int) error {
	if k < 1 || k > km.N() {
		return fmt.Errorf("eclust: k=%d with n=%d: %w", k, km.N(), ErrInvalidK)
	}
	return nil
}

// kmeansPPSeeds runs k-means++ seeding over n points with the pairwise
// distance dist and returns k distinct point indices. When every unchosen
// point sits at distance zero from the seeds (duplicates), the next seed is
// drawn uniformly from the unchosen points.
func kmeansPPSeeds(n, k int, dist func(i, j int) float64, rng *rand.Rand) []int {
	seeds := make([]int, 0, k)
	chosen := make([]bool, n)
	nearest := make([]float64, n)
	for i := range nearest {
		nearest[i] = math.Inf(1)
	}

	first := rng.IntN(n)
	seeds = append(seeds, first)
	chosen[first] = true

	for len(seeds) < k {
		last := seeds[len(seeds)-1]
		var total float64
		for i := 0; i < n; i++ {
			if chosen[i] {
				continue
			}
			d := dist(i, last)
			if d*d < nearest[i] {
				nearest[i] = d * d
			}
			total += nearest[i]
		}

		next := -1
		if total > 0 && !math.IsInf(total, 1) {
			target := rng.Float64() * total
			var cumulative float64
			for i := 0; i < n; i++ {
				if chosen[i] {
					continue
				}
				cumulative += nearest[i]
				next = i
				if cumulative > target {
					break
				}
			}
		} else {
			// No weight left to sample by: pick the r-th unchosen point.
			r := rng.IntN(n - len(seeds))
			for i := 0; i < n; i++ {
				if chosen[i] {
					continue
				}
				if r == 0 {
					next = i
					break
				}
				r--
			}
		}
		seeds = append(seeds, next)
		chosen[next] = true
	}
	return seeds
}

// assignToSeeds labels each seed with its own cluster id (its position in
// seeds) and every other point with the id of the nearest seed. Ties go to
// the lower cluster id.
func assignToSeeds(km *KernelMatrix, seeds []int) []int {
	n := km.N()
	labels := make([]int, n)
	isSeed := make([]int, n)
	for i := range isSeed {
		isSeed[i] = -1
	}
	for c, s := range seeds {
		isSeed[s] = c
	}
	for i := 0; i < n; i++ {
		if c := isSeed[i]; c >= 0 {
			labels[i] = c
			continue
		}
		best, bestDist := 0, math.Inf(1)
		for c, s := range seeds {
			if d := km.At(i, s); d < bestDist {
				best, bestDist = c, d
			}
		}
		labels[i] = best
	}
	return labels
}

// fillEmptyClusters makes every cluster id in [0, k) non-empty. Each empty
// cluster receives the point of the current largest cluster that is
// farthest from the rest of that cluster (largest kernel row sum within
// it). Requires n >= k. Returns the number of points moved.
func fillEmptyClusters(km *KernelMatrix, labels []int, k int) int {
	sizes := make([]int, k)
	for _, c := range labels {
		sizes[c]++
	}
	moved := 0
	for e := 0; e < k; e++ {
		if sizes[e] > 0 {
			continue
		}
		largest := 0
		for c := 1; c < k; c++ {
			if sizes[c] > sizes[largest] {
				largest = c
			}
		}
		if sizes[largest] < 2 {
			break
		}
		far, farSum := -1, math.Inf(-1)
		for i, c := range labels {
			if c != largest {
				continue
			}
			var sum float64
			row := km.Row(i)
			for j, cj := range labels {
				if cj == largest {
					sum += row[j]
				}
			}
			if sum > farSum {
				far, farSum = i, sum
			}
		}
		labels[far] = e
		sizes[largest]--
		sizes[e]++
		moved++
	}
	return moved
}
