package eclust

import "errors"

// Errors returned by Cluster, ClusterPrecomputed and the kernel matrix
// builders. Returned errors wrap these sentinels; match them with errors.Is.
var (
	// ErrEmptyInput is returned when the point set is empty.
	ErrEmptyInput = errors.New("eclust: empty input")

	// ErrInvalidK is returned when k is outside [2, n].
	ErrInvalidK = errors.New("eclust: invalid number of clusters")

	// ErrDimensionMismatch is returned when points do not share the same
	// dimensionality, or when a precomputed matrix has the wrong shape.
	ErrDimensionMismatch = errors.New("eclust: dimension mismatch")

	// ErrNumericalDegeneracy is returned by SpectralInit when the
	// eigen-decomposition fails or the centred kernel has no positive
	// spectrum. Cluster recovers from it by falling back to RandomInit.
	ErrNumericalDegeneracy = errors.New("eclust: numerical degeneracy")
)
