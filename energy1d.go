package eclust

import (
	"fmt"
	"sort"
)

// Cluster1D finds the exact two-cluster energy optimum for one-dimensional
// data under the Euclidean kernel. In one dimension the optimal partition
// is a split of the sorted values, so every split point is scored with
// prefix sums in O(n) after an O(n log n) sort.
//
// Labels are 0 for the lower cluster and 1 for the upper one. The energy is
// the same quantity Cluster reports for k = 2 with EuclideanKernel and the
// given criterion; an empty criterion means CriterionWeighted. Ties go to
// the leftmost split.
func Cluster1D(values []float64, criterion Criterion) (*Result, error) {
	switch criterion {
	case "":
		criterion = CriterionWeighted
	case CriterionWeighted, CriterionPairwise:
	default:
		return nil, fmt.Errorf("eclust: invalid Criterion %q", criterion)
	}
	n := len(values)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	if n < 2 {
		return nil, fmt.Errorf("eclust: need at least 2 values, got %d: %w", n, ErrInvalidK)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })
	x := make([]float64, n)
	for i, idx := range order {
		x[i] = values[idx]
	}

	// suffixSum[s] = Σ_{i>=s} x[i]
	// suffixPairs[s] = Σ_{s<=i<j} (x[j] − x[i])
	suffixSum := make([]float64, n+1)
	suffixPairs := make([]float64, n+1)
	for s := n - 1; s >= 0; s-- {
		suffixSum[s] = suffixSum[s+1] + x[s]
		suffixPairs[s] = suffixPairs[s+1] + suffixSum[s+1] - float64(n-s-1)*x[s]
	}

	bestSplit, bestEnergy := -1, 0.0
	var leftSum, leftPairs float64
	for m := 1; m < n; m++ {
		// Grow the left block to x[0..m-1].
		leftPairs += float64(m-1)*x[m-1] - leftSum
		leftSum += x[m-1]

		nl, nr := float64(m), float64(n-m)
		rightSum := suffixSum[m]
		between := nl*rightSum - nr*leftSum
		e := 2*between/(nl*nr) - 2*leftPairs/(nl*nl) - 2*suffixPairs[m]/(nr*nr)
		if criterion == CriterionWeighted {
			e *= nl * nr / float64(n)
		}
		if bestSplit < 0 || e > bestEnergy {
			bestSplit, bestEnergy = m, e
		}
	}

	labels := make([]int, n)
	for i, idx := range order {
		if i >= bestSplit {
			labels[idx] = 1
		}
	}
	return &Result{
		Labels:      labels,
		Energy:      bestEnergy,
		Converged:   true,
		Iterations:  1,
		RunEnergies: []float64{bestEnergy},
	}, nil
}
