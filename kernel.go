package eclust

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Kernel scores a pair of points. The energy statistic treats the score as a
// distance: it must be symmetric, and Evaluate(x, x) should be 0.
type Kernel interface {
	Evaluate(a, b []float64) float64
}

// KernelFunc adapts a plain function into a Kernel.
type KernelFunc func(a, b []float64) float64

func (f KernelFunc) Evaluate(a, b []float64) float64 { return f(a, b) }

// EuclideanKernel is the L2 distance. It is the standard energy-distance
// kernel and the default.
type EuclideanKernel struct{}

func (EuclideanKernel) Evaluate(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// PowerKernel computes ‖a−b‖^Alpha. Alpha must be in (0, 2]; for those
// values the energy statistic remains a valid semimetric criterion.
// Alpha = 1 is the Euclidean kernel.
type PowerKernel struct {
	Alpha float64
}

func (p PowerKernel) Evaluate(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	if p.Alpha == 1 {
		return d
	}
	return math.Pow(d, p.Alpha)
}

// ManhattanKernel is the L1 (city-block) distance.
type ManhattanKernel struct{}

func (ManhattanKernel) Evaluate(a, b []float64) float64 {
	return floats.Distance(a, b, 1)
}

// ChebyshevKernel is the L-infinity distance.
type ChebyshevKernel struct{}

func (ChebyshevKernel) Evaluate(a, b []float64) float64 {
	return floats.Distance(a, b, math.Inf(1))
}

// MinkowskiKernel is the Minkowski distance of order P.
// P must be >= 1. Panics if P < 1.
type MinkowskiKernel struct {
	P float64
}

func (m MinkowskiKernel) Evaluate(a, b []float64) float64 {
	if m.P < 1 {
		panic("MinkowskiKernel: P must be >= 1")
	}
	return floats.Distance(a, b, m.P)
}

// GaussianKernel is the squared feature-space distance induced by the
// Gaussian RBF kernel with bandwidth Sigma:
//
//	2 - 2*exp(-‖a−b‖² / (2σ²))
//
// It is bounded by 2, which makes the energy statistic robust to outliers.
type GaussianKernel struct {
	Sigma float64
}

func (g GaussianKernel) Evaluate(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return 2 - 2*math.Exp(-d*d/(2*g.Sigma*g.Sigma))
}
