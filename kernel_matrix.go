package eclust

import (
	"fmt"
	"sync"
)

// KernelMatrix is a dense symmetric n×n matrix of pairwise kernel scores,
// stored flat in row-major order. It is read-only once built and may be
// shared by concurrent clustering runs.
type KernelMatrix struct {
	n    int
	data []float64
}

// N returns the number of points the matrix was built over.
func (m *KernelMatrix) N() int { return m.n }

// At returns K[i][j].
func (m *KernelMatrix) At(i, j int) float64 { return m.data[i*m.n+j] }

// Row returns row i as a slice aliasing the matrix storage.
// Callers must not modify it.
func (m *KernelMatrix) Row(i int) []float64 { return m.data[i*m.n : (i+1)*m.n] }

// Data returns the flat row-major backing slice. Callers must not modify it.
func (m *KernelMatrix) Data() []float64 { return m.data }

// checkPoints verifies that every point has the same non-zero dimensionality
// and returns it.
func checkPoints(points [][]float64) (int, error) {
	if len(points) == 0 {
		return 0, ErrEmptyInput
	}
	dims := len(points[0])
	if dims == 0 {
		return 0, fmt.Errorf("eclust: point 0 has no coordinates: %w", ErrDimensionMismatch)
	}
	for i, p := range points {
		if len(p) != dims {
			return 0, fmt.Errorf("eclust: point %d has %d coordinates, want %d: %w",
				i, len(p), dims, ErrDimensionMismatch)
		}
	}
	return dims, nil
}

// NewKernelMatrix evaluates kernel over every pair of points.
// K[i][j] = kernel.Evaluate(points[i], points[j]) for i < j, mirrored to
// K[j][i]; the diagonal is evaluated once per point.
func NewKernelMatrix(points [][]float64, kernel Kernel) (*KernelMatrix, error) {
	if _, err := checkPoints(points); err != nil {
		return nil, err
	}
	n := len(points)
	m := &KernelMatrix{n: n, data: make([]float64, n*n)}
	m.fillRows(points, kernel, 0, n)
	return m, nil
}

// NewKernelMatrixParallel is NewKernelMatrix with rows split across up to
// workers goroutines. If workers <= 1, it falls back to NewKernelMatrix.
//
// The result is bitwise identical to NewKernelMatrix.
func NewKernelMatrixParallel(points [][]float64, kernel Kernel, workers int) (*KernelMatrix, error) {
	if workers <= 1 || len(points) <= 1 {
		return NewKernelMatrix(points, kernel)
	}
	if _, err := checkPoints(points); err != nil {
		return nil, err
	}
	n := len(points)
	m := &KernelMatrix{n: n, data: make([]float64, n*n)}

	// Each worker owns a contiguous range of source rows i and writes
	// K[i][j] and K[j][i] for j >= i. Ranges are disjoint, so no two
	// goroutines write the same cell.
	var wg sync.WaitGroup
	rowsPerWorker := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		if start >= n {
			break
		}
		end := min(start+rowsPerWorker, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.fillRows(points, kernel, start, end)
		}()
	}
	wg.Wait()
	return m, nil
}

func (m *KernelMatrix) fillRows(points [][]float64, kernel Kernel, start, end int) {
	n := m.n
	for i := start; i < end; i++ {
		m.data[i*n+i] = kernel.Evaluate(points[i], points[i])
		for j := i + 1; j < n; j++ {
			v := kernel.Evaluate(points[i], points[j])
			m.data[i*n+j] = v
			m.data[j*n+i] = v
		}
	}
}

// NewKernelMatrixPrecomputed wraps a flat row-major n×n matrix supplied by
// the caller. The slice is used as-is, not copied. It must be symmetric.
func NewKernelMatrixPrecomputed(data []float64, n int) (*KernelMatrix, error) {
	if n == 0 {
		return nil, ErrEmptyInput
	}
	if n < 0 {
		return nil, fmt.Errorf("eclust: matrix size n=%d is negative: %w", n, ErrDimensionMismatch)
	}
	if len(data) != n*n {
		return nil, fmt.Errorf("eclust: matrix length %d does not match n*n = %d (n=%d): %w",
			len(data), n*n, n, ErrDimensionMismatch)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if data[i*n+j] != data[j*n+i] {
				return nil, fmt.Errorf("eclust: matrix is not symmetric at (%d, %d): %g != %g",
					i, j, data[i*n+j], data[j*n+i])
			}
		}
	}
	return &KernelMatrix{n: n, data: data}, nil
}
