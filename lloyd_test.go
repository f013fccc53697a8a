package eclust

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLloyd_EnergyNonDecreasing(t *testing.T) {
	rng := rand.New(rand.NewPCG(41, 0))
	n, k := 80, 3
	km := mustKernelMatrix(t, randomPoints(rng, n, 2), EuclideanKernel{})

	for _, criterion := range criteria {
		t.Run(string(criterion), func(t *testing.T) {
			labels, err := RandomInit{}.Initialize(km, k, rng)
			require.NoError(t, err)
			s := newClusterStats(km, labels, k, criterion, 0)

			last := s.energy()
			iterations := 0
			l := &lloyd{maxIter: 200}
			l.onIteration = func(iter int, energy float64) {
				iterations++
				assert.GreaterOrEqual(t, energy, last-1e-9, "iteration %d", iter)
				last = energy
			}
			res := l.optimize(s)
			assert.True(t, res.converged || res.stalled)
			assert.LessOrEqual(t, res.iterations, 200)
			assert.InDelta(t, last, s.energy(), 1e-9)
			assertValidPartition(t, s.labels, n, k)
		})
	}
}

func TestLloyd_FixedPoint(t *testing.T) {
	km := mustKernelMatrix(t, [][]float64{{0}, {1}, {10}, {11}}, EuclideanKernel{})
	s := newClusterStats(km, []int{0, 0, 1, 1}, 2, CriterionWeighted, 0)

	res := (&lloyd{maxIter: 10}).optimize(s)
	assert.True(t, res.converged)
	assert.Equal(t, 1, res.iterations)
	assert.Zero(t, res.moves)
	assert.Equal(t, []int{0, 0, 1, 1}, s.labels)
}

func TestLloyd_RecoversSplit(t *testing.T) {
	km := mustKernelMatrix(t, [][]float64{{0}, {1}, {10}, {11}}, EuclideanKernel{})

	for _, criterion := range criteria {
		t.Run(string(criterion), func(t *testing.T) {
			s := newClusterStats(km, []int{0, 0, 0, 1}, 2, criterion, 0)

			res := (&lloyd{maxIter: 10}).optimize(s)
			assert.True(t, res.converged)
			assert.False(t, res.stalled)
			assert.Equal(t, 2, res.iterations)
			assert.Equal(t, 1, res.moves)
			assert.Equal(t, []int{0, 0, 1, 1}, s.labels)
			assert.InDelta(t, 19.0, s.energy(), 1e-12)
		})
	}
}

func TestLloyd_PairwiseStepFollowsMoveGain(t *testing.T) {
	// From {0,1,10}|{11} only moving 10 raises the pairwise energy,
	// from 92/9 to 19.
	km := mustKernelMatrix(t, [][]float64{{0}, {1}, {10}, {11}}, EuclideanKernel{})
	s := newClusterStats(km, []int{0, 0, 0, 1}, 2, CriterionPairwise, 0)

	next := make([]int, 4)
	(&lloyd{}).assign(s, next)
	assert.Equal(t, []int{0, 0, 1, 1}, next)
}

func TestLloyd_RejectedStepIsNotConverged(t *testing.T) {
	// Moving 11 or 4 alone raises the pairwise energy, but moving both
	// lowers it from 2.25 to 37/18.
	km := mustKernelMatrix(t, [][]float64{{8}, {9}, {11}, {10}, {4}}, EuclideanKernel{})
	start := []int{0, 0, 0, 1, 0}
	s := newClusterStats(km, append([]int(nil), start...), 2, CriterionPairwise, 0)
	before := s.energy()
	require.InDelta(t, 2.25, before, 1e-12)

	res := (&lloyd{maxIter: 10}).optimize(s)
	assert.True(t, res.stalled)
	assert.False(t, res.converged)
	assert.Equal(t, 1, res.iterations)
	assert.Zero(t, res.moves)
	assert.Equal(t, start, s.labels)
	assert.InDelta(t, before, s.energy(), 1e-12)
}

func TestLloyd_IterationLimit(t *testing.T) {
	km := mustKernelMatrix(t, [][]float64{{0}, {1}, {10}, {11}}, EuclideanKernel{})
	s := newClusterStats(km, []int{0, 0, 0, 1}, 2, CriterionWeighted, 0)

	res := (&lloyd{maxIter: 1}).optimize(s)
	assert.False(t, res.converged)
	assert.Equal(t, 1, res.iterations)
}

func TestReseedEmpty(t *testing.T) {
	km := mustKernelMatrix(t, [][]float64{{0}, {1}, {2}, {20}}, EuclideanKernel{})
	s := newClusterStats(km, []int{0, 0, 0, 1}, 2, CriterionWeighted, 0)

	// Every point proposed for cluster 0; cluster 1 must get the point
	// farthest from cluster 0 in energy distance, which is 20.
	proposed := []int{0, 0, 0, 0}
	reseedEmpty(s, proposed)
	assert.Equal(t, []int{0, 0, 0, 1}, proposed)
}
