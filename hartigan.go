package eclust

import (
	"math"
	"math/rand/v2"
)

// improvementTol is the relative gain a move must exceed to be accepted.
// It keeps round-off in the incremental deltas from producing moves that
// cycle forever between partitions of equal energy.
const improvementTol = 1e-12

// optimizeResult is what an optimizer reports back to the driver.
type optimizeResult struct {
	iterations int
	moves      int
	converged  bool

	// stalled is set when the optimizer stopped because its next step
	// would have lowered the energy.
	stalled bool
}

// hartigan is the single-point relocation local search. Every point is
// visited in turn and moved at once to the cluster with the largest
// positive energy gain, provided its own cluster keeps at least one point.
type hartigan struct {
	maxIter int
	shuffle bool
	rng     *rand.Rand

	// onMove, if set, is called after every accepted move.
	onMove func(x, from, to int, delta float64)
}

func (h *hartigan) optimize(s *clusterStats) optimizeResult {
	n := s.km.N()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	var res optimizeResult
	for pass := 0; pass < h.maxIter; pass++ {
		res.iterations = pass + 1
		if h.shuffle {
			h.rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
		}
		threshold := improvementTol * math.Max(1, math.Abs(s.energy()))

		moved := 0
		for _, x := range order {
			from := s.labels[x]
			if s.sizes[from] <= 1 {
				// Moving the last point out would empty the cluster.
				continue
			}
			best, bestDelta := -1, threshold
			for c := 0; c < s.k; c++ {
				if c == from {
					continue
				}
				if d := s.moveDelta(x, c); d > bestDelta {
					best, bestDelta = c, d
				}
			}
			if best < 0 {
				continue
			}
			s.move(x, best)
			moved++
			if h.onMove != nil {
				h.onMove(x, from, best, bestDelta)
			}
		}
		res.moves += moved
		if moved == 0 {
			res.converged = true
			break
		}
	}
	return res
}
