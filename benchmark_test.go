package eclust

import (
	"math/rand/v2"
	"testing"
)

func generateBenchData(n, dims int) [][]float64 {
	rng := rand.New(rand.NewPCG(42, 42))
	data := make([][]float64, n)
	for i := range data {
		data[i] = make([]float64, dims)
		for j := range data[i] {
			data[i][j] = rng.Float64() * 100
		}
	}
	return data
}

// --- Kernel Matrix ---

func benchKernelMatrix(b *testing.B, n, workers int) {
	b.Helper()
	data := generateBenchData(n, 2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := NewKernelMatrixParallel(data, EuclideanKernel{}, workers); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkKernelMatrix_100(b *testing.B)          { benchKernelMatrix(b, 100, 1) }
func BenchmarkKernelMatrix_1000(b *testing.B)         { benchKernelMatrix(b, 1000, 1) }
func BenchmarkKernelMatrixParallel_1000(b *testing.B) { benchKernelMatrix(b, 1000, 4) }

// --- Energy Statistics ---

func benchMoveDelta(b *testing.B, n, k int, criterion Criterion) {
	b.Helper()
	data := generateBenchData(n, 2)
	km, err := NewKernelMatrix(data, EuclideanKernel{})
	if err != nil {
		b.Fatal(err)
	}
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i % k
	}
	s := newClusterStats(km, labels, k, criterion, 0)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x := i % n
		s.moveDelta(x, (labels[x]+1)%k)
	}
}

func BenchmarkMoveDelta_Weighted_k8(b *testing.B) { benchMoveDelta(b, 500, 8, CriterionWeighted) }
func BenchmarkMoveDelta_Pairwise_k8(b *testing.B) { benchMoveDelta(b, 500, 8, CriterionPairwise) }

// --- Full Pipeline ---

func benchCluster(b *testing.B, n int, method Method) {
	b.Helper()
	data := generateBenchData(n, 2)
	cfg := DefaultConfig()
	cfg.Method = method
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Cluster(data, 3, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkClusterHartigan_100(b *testing.B) { benchCluster(b, 100, MethodHartigan) }
func BenchmarkClusterHartigan_500(b *testing.B) { benchCluster(b, 500, MethodHartigan) }
func BenchmarkClusterLloyd_100(b *testing.B)    { benchCluster(b, 100, MethodLloyd) }
func BenchmarkClusterLloyd_500(b *testing.B)    { benchCluster(b, 500, MethodLloyd) }

func BenchmarkCluster1D_10000(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	values := make([]float64, 10000)
	for i := range values {
		values[i] = rng.NormFloat64()
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Cluster1D(values, CriterionWeighted); err != nil {
			b.Fatal(err)
		}
	}
}
