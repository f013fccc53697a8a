// Package eclust implements clustering by maximizing the energy statistic,
// a kernel-based measure of between-cluster separation minus within-cluster
// spread:
//
//	E = Σ_{a<b} [ 2·mean K(C_a×C_b) − mean K(C_a×C_a) − mean K(C_b×C_b) ]
//
// where K is a distance-like kernel such as the Euclidean distance. Unlike
// k-means, the energy criterion compares whole distributions rather than
// means, so it separates clusters that differ in spread or shape.
//
// Config.Criterion chooses how the pair terms are combined. The default
// CriterionWeighted scales each pair by n_a·n_b/n, which turns the
// statistic into total scatter minus within-cluster dispersion and keeps
// outliers from forming their own clusters. CriterionPairwise is the
// unweighted sum above.
//
// Basic usage:
//
//	cfg := eclust.DefaultConfig()
//	cfg.Seed = 42
//	result, err := eclust.Cluster(data, 2, cfg)
//	// result.Labels[i] is the cluster ID of point i, in [0, k)
//	// result.Energy is the energy statistic of that partition
//
// For precomputed kernel matrices:
//
//	km, err := eclust.NewKernelMatrixPrecomputed(flat, n)
//	result, err := eclust.ClusterPrecomputed(km, k, cfg)
//
// # Optimizers
//
// Config.Method selects how points are relocated:
//
//	cfg.Method = eclust.MethodHartigan // single-point moves, applied at once
//	cfg.Method = eclust.MethodLloyd    // batch reassignment per iteration
//
// Hartigan evaluates each move in O(1) (weighted) or O(k) (pairwise) from
// cached cluster statistics, which are rebuilt exactly every
// Config.RecomputeInterval moves.
//
// # Initialization
//
// Config.Init selects the starting partition of every run:
//
//	cfg.Init = eclust.RandomInit{}          // k random seeds, nearest-seed assignment
//	cfg.Init = eclust.KMeansPlusPlusInit{}  // k-means++ seeding on the kernel
//	cfg.Init = eclust.SpectralInit{}        // eigen-embedding of the centred kernel
//
// Config.RunTimes independent runs are made and the highest-energy run
// is returned. For one-dimensional data with two clusters, Cluster1D finds
// the exact optimum directly.
package eclust
