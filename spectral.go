package eclust

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// spectralTol is the smallest leading eigenvalue, relative to the largest
// absolute entry of the centred kernel, that SpectralInit accepts.
const spectralTol = 1e-10

// SpectralInit seeds the partition from an eigen-embedding of the kernel
// matrix. The kernel is double-centred into a Gram matrix
//
//	G = −½·J·K·J,  J = I − 11ᵀ/n
//
// which is positive semidefinite for energy kernels such as ‖x−y‖^α with
// α in (0, 2]. Each point is embedded into R^k through the top k
// eigenvectors of G scaled by √λ, and the embedded points are clustered with
// k-means++ seeding followed by Lloyd iterations.
//
// Initialize returns ErrNumericalDegeneracy when the factorization fails or
// G has no positive eigenvalue (for example when all points coincide).
type SpectralInit struct {
	// MaxIter bounds the Lloyd iterations in the embedded space.
	// 0 means 100.
	MaxIter int
}

func (s SpectralInit) Initialize(km *KernelMatrix, k int, rng *rand.Rand) ([]int, error) {
	if err := checkInitArgs(km, k); err != nil {
		return nil, err
	}
	maxIter := s.MaxIter
	if maxIter <= 0 {
		maxIter = 100
	}

	embedded, err := spectralEmbedding(km, k)
	if err != nil {
		return nil, err
	}
	labels := kmeansEmbedded(embedded, k, maxIter, rng)
	fillEmptyClusters(km, labels, k)
	return labels, nil
}

// centredGram returns −½·J·K·J as a flat row-major slice.
func centredGram(km *KernelMatrix) []float64 {
	n := km.N()
	rowMeans := make([]float64, n)
	for i := 0; i < n; i++ {
		rowMeans[i] = floats.Sum(km.Row(i)) / float64(n)
	}
	grand := floats.Sum(rowMeans) / float64(n)

	gram := make([]float64, n*n)
	for i := 0; i < n; i++ {
		row := km.Row(i)
		for j := i; j < n; j++ {
			v := -0.5 * (row[j] - rowMeans[i] - rowMeans[j] + grand)
			gram[i*n+j] = v
			gram[j*n+i] = v
		}
	}
	return gram
}

// spectralEmbedding returns the n points embedded into R^k.
func spectralEmbedding(km *KernelMatrix, k int) ([][]float64, error) {
	n := km.N()
	gram := centredGram(km)

	scale := 1.0
	for _, v := range gram {
		scale = math.Max(scale, math.Abs(v))
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(mat.NewSymDense(n, gram), true); !ok {
		return nil, fmt.Errorf("eclust: eigen-decomposition of %d×%d kernel failed: %w", n, n, ErrNumericalDegeneracy)
	}
	values := eig.Values(nil)
	if top := values[n-1]; !(top > spectralTol*scale) {
		return nil, fmt.Errorf("eclust: centred kernel has no positive spectrum (leading eigenvalue %g): %w",
			top, ErrNumericalDegeneracy)
	}

	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	// Eigenvalues are ascending; the top k live in the last k columns.
	embedded := make([][]float64, n)
	for i := range embedded {
		embedded[i] = make([]float64, k)
	}
	for j := 0; j < k; j++ {
		col := n - 1 - j
		lambda := values[col]
		if lambda <= spectralTol*scale {
			continue
		}
		w := math.Sqrt(lambda)
		for i := 0; i < n; i++ {
			embedded[i][j] = w * vectors.At(i, col)
		}
	}
	return embedded, nil
}

// kmeansEmbedded clusters points under the Euclidean distance with
// k-means++ seeding and Lloyd iterations. A cluster that loses all its points
// is re-seeded at the point farthest from its current centroid.
func kmeansEmbedded(points [][]float64, k, maxIter int, rng *rand.Rand) []int {
	n, dims := len(points), len(points[0])
	dist := func(i, j int) float64 { return floats.Distance(points[i], points[j], 2) }

	centroids := make([][]float64, k)
	for c, s := range kmeansPPSeeds(n, k, dist, rng) {
		centroids[c] = make([]float64, dims)
		copy(centroids[c], points[s])
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	counts := make([]int, k)

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			if c := nearestCentroid(p, centroids); c != labels[i] {
				labels[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}

		clear(counts)
		for c := range centroids {
			floats.Scale(0, centroids[c])
		}
		for i, p := range points {
			floats.Add(centroids[labels[i]], p)
			counts[labels[i]]++
		}
		for c := range centroids {
			if counts[c] > 0 {
				floats.Scale(1/float64(counts[c]), centroids[c])
			}
		}
		for c := range centroids {
			if counts[c] > 0 {
				continue
			}
			far := farthestFromCentroid(points, labels, centroids, counts)
			if far < 0 {
				break
			}
			counts[labels[far]]--
			labels[far] = c
			counts[c] = 1
			copy(centroids[c], points[far])
		}
	}
	return labels
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(p, centroid, 2); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// farthestFromCentroid returns the point farthest from its own centroid
// among clusters with more than one member, or -1 if there is none.
func farthestFromCentroid(points [][]float64, labels []int, centroids [][]float64, counts []int) int {
	far, farDist := -1, -1.0
	for i, p := range points {
		c := labels[i]
		if counts[c] < 2 {
			continue
		}
		if d := floats.Distance(p, centroids[c], 2); d > farDist {
			far, farDist = i, d
		}
	}
	return far
}
