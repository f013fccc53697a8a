package eclust

import (
	"math"
	"testing"
)

const floatTol = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// --- EuclideanKernel tests ---

func TestEuclideanKernel_IdenticalVectors(t *testing.T) {
	k := EuclideanKernel{}
	a := []float64{1, 2, 3}
	if d := k.Evaluate(a, a); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestEuclideanKernel_HandComputed(t *testing.T) {
	k := EuclideanKernel{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	// sqrt(9 + 16 + 0) = 5
	if d := k.Evaluate(a, b); !almostEqual(d, 5.0, floatTol) {
		t.Errorf("expected 5.0, got %v", d)
	}
}

func TestEuclideanKernel_Symmetric(t *testing.T) {
	k := EuclideanKernel{}
	a := []float64{0.5, -1, 7}
	b := []float64{2, 3, -4}
	if k.Evaluate(a, b) != k.Evaluate(b, a) {
		t.Errorf("Evaluate(a,b)=%v != Evaluate(b,a)=%v", k.Evaluate(a, b), k.Evaluate(b, a))
	}
}

// --- PowerKernel tests ---

func TestPowerKernel_AlphaOneEqualsEuclidean(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	p := PowerKernel{Alpha: 1}.Evaluate(a, b)
	e := EuclideanKernel{}.Evaluate(a, b)
	if p != e {
		t.Errorf("Power(1)=%v != Euclidean=%v", p, e)
	}
}

func TestPowerKernel_AlphaTwoIsSquared(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	if d := (PowerKernel{Alpha: 2}).Evaluate(a, b); !almostEqual(d, 25.0, 1e-9) {
		t.Errorf("expected 25.0, got %v", d)
	}
}

func TestPowerKernel_HalfPower(t *testing.T) {
	a := []float64{0}
	b := []float64{4}
	if d := (PowerKernel{Alpha: 0.5}).Evaluate(a, b); !almostEqual(d, 2.0, floatTol) {
		t.Errorf("expected 2.0, got %v", d)
	}
}

// --- ManhattanKernel / ChebyshevKernel tests ---

func TestManhattanKernel_HandComputed(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	// 3 + 4 + 0 = 7
	if d := (ManhattanKernel{}).Evaluate(a, b); !almostEqual(d, 7.0, floatTol) {
		t.Errorf("expected 7.0, got %v", d)
	}
}

func TestChebyshevKernel_HandComputed(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	// max(3, 4, 0) = 4
	if d := (ChebyshevKernel{}).Evaluate(a, b); !almostEqual(d, 4.0, floatTol) {
		t.Errorf("expected 4.0, got %v", d)
	}
}

// --- MinkowskiKernel tests ---

func TestMinkowskiKernel_P1_EqualsManhattan(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	mk := MinkowskiKernel{P: 1}.Evaluate(a, b)
	man := ManhattanKernel{}.Evaluate(a, b)
	if !almostEqual(mk, man, floatTol) {
		t.Errorf("Minkowski(1)=%v != Manhattan=%v", mk, man)
	}
}

func TestMinkowskiKernel_P2_EqualsEuclidean(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	mk := MinkowskiKernel{P: 2}.Evaluate(a, b)
	eu := EuclideanKernel{}.Evaluate(a, b)
	if !almostEqual(mk, eu, floatTol) {
		t.Errorf("Minkowski(2)=%v != Euclidean=%v", mk, eu)
	}
}

func TestMinkowskiKernel_InvalidPPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for P < 1")
		}
	}()
	MinkowskiKernel{P: 0.5}.Evaluate([]float64{0}, []float64{1})
}

// --- GaussianKernel tests ---

func TestGaussianKernel_ZeroOnDiagonal(t *testing.T) {
	g := GaussianKernel{Sigma: 1.5}
	a := []float64{3, -2}
	if d := g.Evaluate(a, a); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestGaussianKernel_HandComputed(t *testing.T) {
	g := GaussianKernel{Sigma: 1}
	a := []float64{0, 0}
	b := []float64{1, 1}
	// 2 - 2*exp(-2/2)
	expected := 2 - 2*math.Exp(-1)
	if d := g.Evaluate(a, b); !almostEqual(d, expected, floatTol) {
		t.Errorf("expected %v, got %v", expected, d)
	}
}

func TestGaussianKernel_ThreeDims(t *testing.T) {
	g := GaussianKernel{Sigma: 3}
	// ‖(1,2,2)‖² = 9, so 2 - 2*exp(-9/18).
	expected := 2 - 2*math.Exp(-0.5)
	if d := g.Evaluate([]float64{1, 2, 2}, []float64{0, 0, 0}); !almostEqual(d, expected, floatTol) {
		t.Errorf("expected %v, got %v", expected, d)
	}
}

func TestGaussianKernel_BoundedByTwo(t *testing.T) {
	g := GaussianKernel{Sigma: 0.1}
	if d := g.Evaluate([]float64{0}, []float64{1e6}); d > 2 || !almostEqual(d, 2, floatTol) {
		t.Errorf("expected ~2 for far points, got %v", d)
	}
}

// --- KernelFunc tests ---

func TestKernelFunc_Adapter(t *testing.T) {
	calls := 0
	k := KernelFunc(func(a, b []float64) float64 {
		calls++
		return math.Abs(a[0] - b[0])
	})
	if d := k.Evaluate([]float64{2}, []float64{-3}); d != 5 {
		t.Errorf("expected 5, got %v", d)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
