package eclust

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultRecomputeInterval is the number of incremental moves after which
// cluster statistics are rebuilt exactly from the kernel matrix.
const DefaultRecomputeInterval = 256

// Criterion selects how the energy distances between cluster pairs are
// combined into the statistic the optimizers maximize. For clusters C_a and
// C_b the energy distance is
//
//	ε(a, b) = 2·mean K(C_a×C_b) − mean K(C_a×C_a) − mean K(C_b×C_b)
type Criterion string

const (
	// CriterionWeighted weights each pair by its sizes:
	//
	//	E = Σ_{a<b} (n_a·n_b / n)·ε(a, b) = ΣK/n − Σ_a S_a/n_a
	//
	// where S_a is the sum of K over C_a×C_a. Maximizing it is the same as
	// minimizing within-cluster dispersion, and a move's gain depends only
	// on the two clusters involved.
	CriterionWeighted Criterion = "weighted"

	// CriterionPairwise sums the energy distances unweighted:
	//
	//	E = Σ_{a<b} ε(a, b)
	//
	// It rewards isolating extreme points in tiny clusters, so it suits
	// data without outliers.
	CriterionPairwise Criterion = "pairwise"
)

// Energy evaluates the energy statistic of a partition under criterion.
// labels[i] must be in [0, k). Empty clusters contribute nothing.
// Larger values mean better separated clusters.
func Energy(km *KernelMatrix, labels []int, k int, criterion Criterion) float64 {
	return newClusterStats(km, labels, k, criterion, 0).energy()
}

// clusterStats caches the sufficient statistics of a partition:
//
//	rowSums[i*k+c] = Σ_{j∈C_c} K[i][j]
//	blocks[a*k+b]  = Σ_{i∈C_a, j∈C_b} K[i][j]
//
// Both are kept exact under single-point moves, which is what makes a
// Hartigan move O(1) (weighted) or O(k) (pairwise) to evaluate and O(n + k)
// to apply. labels is owned by the stats and mutated in place.
type clusterStats struct {
	km        *KernelMatrix
	k         int
	criterion Criterion
	labels    []int
	sizes     []int
	rowSums   []float64
	blocks    []float64
	total     float64

	// recomputeEvery bounds round-off drift from incremental updates.
	// 0 disables periodic rebuilds.
	recomputeEvery int
	sinceRebuild   int
}

func newClusterStats(km *KernelMatrix, labels []int, k int, criterion Criterion, recomputeEvery int) *clusterStats {
	n := km.N()
	s := &clusterStats{
		km:             km,
		k:              k,
		criterion:      criterion,
		labels:         labels,
		sizes:          make([]int, k),
		rowSums:        make([]float64, n*k),
		blocks:         make([]float64, k*k),
		recomputeEvery: recomputeEvery,
	}
	s.recompute()
	return s
}

// recompute rebuilds every statistic from the kernel matrix in O(n²).
func (s *clusterStats) recompute() {
	n, k := s.km.N(), s.k
	clear(s.sizes)
	clear(s.rowSums)
	clear(s.blocks)

	for _, c := range s.labels {
		s.sizes[c]++
	}
	for i := 0; i < n; i++ {
		row := s.km.Row(i)
		sums := s.rowSums[i*k : (i+1)*k]
		for j, v := range row {
			sums[s.labels[j]] += v
		}
	}
	for i := 0; i < n; i++ {
		a := s.labels[i]
		sums := s.rowSums[i*k : (i+1)*k]
		block := s.blocks[a*k : (a+1)*k]
		for c, v := range sums {
			block[c] += v
		}
	}
	s.total = floats.Sum(s.blocks)
	s.sinceRebuild = 0
}

// energy evaluates E from the cached block sums.
func (s *clusterStats) energy() float64 {
	if s.criterion == CriterionWeighted {
		return s.weightedEnergy()
	}
	return s.pairwiseEnergy()
}

// weightedEnergy is ΣK/n − Σ_a S_a/n_a, O(k).
func (s *clusterStats) weightedEnergy() float64 {
	var dispersion float64
	for a, na := range s.sizes {
		if na > 0 {
			dispersion += s.blocks[a*s.k+a] / float64(na)
		}
	}
	return s.total/float64(s.km.N()) - dispersion
}

// pairwiseEnergy is Σ_{a<b} ε(a, b), O(k²).
func (s *clusterStats) pairwiseEnergy() float64 {
	k := s.k
	var between, within float64
	nonEmpty := 0
	for a := 0; a < k; a++ {
		na := float64(s.sizes[a])
		if na == 0 {
			continue
		}
		nonEmpty++
		within += s.blocks[a*k+a] / (na * na)
		for b := a + 1; b < k; b++ {
			nb := float64(s.sizes[b])
			if nb == 0 {
				continue
			}
			between += 2 * s.blocks[a*k+b] / (na * nb)
		}
	}
	if nonEmpty < 2 {
		return 0
	}
	return between - float64(nonEmpty-1)*within
}

// withinSum returns Σ_a S_a/n_a² over non-empty clusters.
func (s *clusterStats) withinSum() float64 {
	var w float64
	for a := 0; a < s.k; a++ {
		if na := float64(s.sizes[a]); na > 0 {
			w += s.blocks[a*s.k+a] / (na * na)
		}
	}
	return w
}

func (s *clusterStats) nonEmpty() int {
	m := 0
	for _, sz := range s.sizes {
		if sz > 0 {
			m++
		}
	}
	return m
}

// pairTerm is the between-cluster contribution 2·B/(na·nb), zero when
// either side is empty.
func pairTerm(block float64, na, nb int) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	return 2 * block / (float64(na) * float64(nb))
}

// selfTerm is the within-cluster mean S/n², zero for an empty cluster.
func selfTerm(block float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return block / (float64(n) * float64(n))
}

// moveDelta returns E(after) − E(before) for moving point x from its
// current cluster to cluster to, reading only the cached statistics.
func (s *clusterStats) moveDelta(x, to int) float64 {
	if s.labels[x] == to {
		return 0
	}
	if s.criterion == CriterionWeighted {
		return s.weightedDelta(x, to)
	}
	return s.pairwiseDelta(x, to)
}

// weightedDelta only involves the two clusters touched by the move: O(1).
func (s *clusterStats) weightedDelta(x, to int) float64 {
	from, k := s.labels[x], s.k
	kxx := s.km.At(x, x)
	pFrom, pTo := s.rowSums[x*k+from], s.rowSums[x*k+to]
	na, nb := s.sizes[from], s.sizes[to]

	before := s.blocks[from*k+from] / float64(na)
	if nb > 0 {
		before += s.blocks[to*k+to] / float64(nb)
	}
	after := (s.blocks[to*k+to] + 2*pTo + kxx) / float64(nb+1)
	if na > 1 {
		after += (s.blocks[from*k+from] - 2*pFrom + kxx) / float64(na-1)
	}
	return before - after
}

// pairwiseDelta touches every pair involving the two clusters: O(k), or
// O(k²) when the move changes the number of non-empty clusters.
func (s *clusterStats) pairwiseDelta(x, to int) float64 {
	from, k := s.labels[x], s.k
	p := s.rowSums[x*k : (x+1)*k]
	kxx := s.km.At(x, x)

	na, nb := s.sizes[from], s.sizes[to]
	na2, nb2 := na-1, nb+1

	var dBetween float64
	for c := 0; c < k; c++ {
		if c == from || c == to {
			continue
		}
		nc := s.sizes[c]
		if nc == 0 {
			continue
		}
		dBetween += pairTerm(s.blocks[from*k+c]-p[c], na2, nc) - pairTerm(s.blocks[from*k+c], na, nc)
		dBetween += pairTerm(s.blocks[to*k+c]+p[c], nb2, nc) - pairTerm(s.blocks[to*k+c], nb, nc)
	}
	abNew := s.blocks[from*k+to] - p[to] + p[from] - kxx
	dBetween += pairTerm(abNew, na2, nb2) - pairTerm(s.blocks[from*k+to], na, nb)

	aaNew := s.blocks[from*k+from] - 2*p[from] + kxx
	bbNew := s.blocks[to*k+to] + 2*p[to] + kxx
	dWithin := selfTerm(aaNew, na2) + selfTerm(bbNew, nb2) -
		selfTerm(s.blocks[from*k+from], na) - selfTerm(s.blocks[to*k+to], nb)

	m := s.nonEmpty()
	m2 := m
	if na2 == 0 {
		m2--
	}
	if nb == 0 {
		m2++
	}
	delta := dBetween - float64(m2-1)*dWithin
	if m2 != m {
		delta -= float64(m2-m) * s.withinSum()
	}
	return delta
}

// move reassigns x to cluster to and updates the statistics in place.
func (s *clusterStats) move(x, to int) {
	from := s.labels[x]
	if from == to {
		return
	}
	k, n := s.k, s.km.N()
	kxx := s.km.At(x, x)

	// Block updates need x's row sums from before the move.
	p := make([]float64, k)
	copy(p, s.rowSums[x*k:(x+1)*k])

	for c := 0; c < k; c++ {
		if c == from || c == to {
			continue
		}
		s.blocks[from*k+c] -= p[c]
		s.blocks[c*k+from] = s.blocks[from*k+c]
		s.blocks[to*k+c] += p[c]
		s.blocks[c*k+to] = s.blocks[to*k+c]
	}
	s.blocks[from*k+to] += p[from] - p[to] - kxx
	s.blocks[to*k+from] = s.blocks[from*k+to]
	s.blocks[from*k+from] += kxx - 2*p[from]
	s.blocks[to*k+to] += kxx + 2*p[to]

	row := s.km.Row(x)
	for i := 0; i < n; i++ {
		s.rowSums[i*k+from] -= row[i]
		s.rowSums[i*k+to] += row[i]
	}

	s.sizes[from]--
	s.sizes[to]++
	s.labels[x] = to

	s.sinceRebuild++
	if s.recomputeEvery > 0 && s.sinceRebuild >= s.recomputeEvery {
		s.recompute()
	}
}

// pointCost is the energy distance from point i to cluster c, dropping the
// K[i][i] term that is common to every cluster:
//
//	2·mean K(i, C_c) − mean K(C_c×C_c)
//
// Returns +Inf for an empty cluster.
func (s *clusterStats) pointCost(i, c int) float64 {
	nc := s.sizes[c]
	if nc == 0 {
		return math.Inf(1)
	}
	fn := float64(nc)
	return 2*s.rowSums[i*s.k+c]/fn - s.blocks[c*s.k+c]/(fn*fn)
}
