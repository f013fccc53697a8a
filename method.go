package eclust

import (
	"fmt"
	"math/rand/v2"
)

// Method selects the relocation strategy used to optimize the energy.
type Method string

const (
	// MethodHartigan moves one point at a time and updates the cluster
	// statistics immediately after each accepted move.
	MethodHartigan Method = "hartigan"

	// MethodLloyd reassigns all points in a batch against statistics frozen
	// at the start of each iteration.
	MethodLloyd Method = "lloyd"
)

// optimizer runs a relocation strategy to a fixed point or its iteration
// budget, mutating s in place.
type optimizer interface {
	optimize(s *clusterStats) optimizeResult
}

// newOptimizer builds the optimizer for cfg.Method. rng is the run's own
// generator; only Hartigan with ShuffleOrder draws from it.
func newOptimizer(cfg Config, rng *rand.Rand) (optimizer, error) {
	switch cfg.Method {
	case MethodHartigan:
		return &hartigan{maxIter: cfg.MaxIter, shuffle: cfg.ShuffleOrder, rng: rng}, nil
	case MethodLloyd:
		return &lloyd{maxIter: cfg.MaxIter}, nil
	default:
		return nil, fmt.Errorf("eclust: invalid Method %q", cfg.Method)
	}
}
