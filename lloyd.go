package eclust

import (
	"math"
	"slices"
)

// lloyd is the batch reassignment optimizer. Each iteration assigns every
// point to its best cluster against statistics frozen at the start of the
// iteration, then rebuilds the statistics. Under CriterionWeighted the best
// cluster is the one at the smallest energy distance; under
// CriterionPairwise it is the one with the largest single-move gain.
//
// A batch step that would lower the energy is rejected and ends the run with
// the previous partition, so the energy never decreases across iterations.
// Such a run is reported as stalled, not converged.
type lloyd struct {
	maxIter int

	// onIteration, if set, is called after every accepted iteration with
	// the energy of the new partition.
	onIteration func(iter int, energy float64)
}

func (l *lloyd) optimize(s *clusterStats) optimizeResult {
	n := s.km.N()
	next := make([]int, n)
	prev := make([]int, n)
	energy := s.energy()

	var res optimizeResult
	for iter := 0; iter < l.maxIter; iter++ {
		res.iterations = iter + 1

		l.assign(s, next)
		reseedEmpty(s, next)
		if slices.Equal(next, s.labels) {
			res.converged = true
			break
		}

		copy(prev, s.labels)
		copy(s.labels, next)
		s.recompute()
		candidate := s.energy()
		if candidate < energy-improvementTol*math.Max(1, math.Abs(energy)) {
			copy(s.labels, prev)
			s.recompute()
			res.stalled = true
			break
		}

		for i := range next {
			if next[i] != prev[i] {
				res.moves++
			}
		}
		energy = candidate
		if l.onIteration != nil {
			l.onIteration(iter, energy)
		}
	}
	return res
}

// assign writes into dst the best cluster of every point against the
// frozen statistics in s. Ties keep the point's current cluster, then go to
// the lower id.
func (l *lloyd) assign(s *clusterStats, dst []int) {
	if s.criterion == CriterionPairwise {
		threshold := improvementTol * math.Max(1, math.Abs(s.energy()))
		for i := range dst {
			best, bestGain := s.labels[i], threshold
			for c := 0; c < s.k; c++ {
				if gain := s.moveDelta(i, c); gain > bestGain {
					best, bestGain = c, gain
				}
			}
			dst[i] = best
		}
		return
	}
	for i := range dst {
		best := s.labels[i]
		bestCost := s.pointCost(i, best)
		for c := 0; c < s.k; c++ {
			if cost := s.pointCost(i, c); cost < bestCost {
				best, bestCost = c, cost
			}
		}
		dst[i] = best
	}
}

// reseedEmpty gives every empty cluster in labels the point that is farthest,
// in energy distance under the frozen statistics s, from the cluster it was
// assigned to. Only clusters with at least two points donate.
func reseedEmpty(s *clusterStats, labels []int) {
	counts := make([]int, s.k)
	for _, c := range labels {
		counts[c]++
	}
	for e := 0; e < s.k; e++ {
		if counts[e] > 0 {
			continue
		}
		far, farCost := -1, math.Inf(-1)
		for i, c := range labels {
			if counts[c] < 2 {
				continue
			}
			if cost := s.pointCost(i, c); cost > farCost {
				far, farCost = i, cost
			}
		}
		if far < 0 {
			return
		}
		counts[labels[far]]--
		labels[far] = e
		counts[e]++
	}
}
