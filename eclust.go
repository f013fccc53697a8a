package eclust

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// seedStream is the PCG stream of the master generator that derives one
// seed per run from Config.Seed.
const seedStream = 0x9e3779b97f4a7c15

// Config controls energy clustering.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Kernel scores pairs of points. Built-in: EuclideanKernel,
	// PowerKernel, ManhattanKernel, ChebyshevKernel, MinkowskiKernel,
	// GaussianKernel. Use KernelFunc to wrap a custom function.
	// Ignored by ClusterPrecomputed. Default: EuclideanKernel.
	Kernel Kernel

	// Init produces the starting partition of every run: RandomInit,
	// KMeansPlusPlusInit or SpectralInit. If SpectralInit hits a numerical
	// degeneracy the run falls back to RandomInit.
	// Default: KMeansPlusPlusInit.
	Init Initializer

	// Method selects the optimizer. Default: MethodHartigan.
	Method Method

	// Criterion selects the energy statistic being maximized.
	// Default: CriterionWeighted.
	Criterion Criterion

	// RunTimes is the number of independently initialized runs. The run
	// with the highest final energy wins; ties go to the earliest run.
	// Must be >= 1. Default: 5.
	RunTimes int

	// MaxIter bounds the optimizer: full scans for Hartigan, batch
	// iterations for Lloyd. Reaching it is not an error; the result then
	// has Converged = false. Must be >= 1. Default: 300.
	MaxIter int

	// Seed seeds the master random generator. Equal seeds give identical
	// results regardless of Workers. Default: 0.
	Seed uint64

	// RecomputeInterval is the number of incremental Hartigan moves after
	// which cluster statistics are rebuilt exactly from the kernel matrix.
	// Must be >= 0. Default: DefaultRecomputeInterval.
	RecomputeInterval int

	// ShuffleOrder makes Hartigan visit points in a fresh random order on
	// every scan instead of index order. Default: false.
	ShuffleOrder bool

	// Workers bounds the goroutines used to build the kernel matrix and
	// to execute independent runs. 0 means runtime.NumCPU().
	Workers int

	// Logger receives debug and warning output. nil discards it.
	Logger *slog.Logger
}

// Result is the outcome of the best run.
type Result struct {
	// Labels assigns each point a cluster id in [0, k). Every id is used.
	Labels []int

	// Energy is the energy statistic of Labels under Config.Criterion,
	// evaluated exactly.
	Energy float64

	// Converged reports whether the winning run reached a fixed point
	// before MaxIter. A Lloyd run that stopped because its next batch step
	// would have lowered the energy is not converged.
	Converged bool

	// Iterations is the number of scans (Hartigan) or batch iterations
	// (Lloyd) the winning run performed.
	Iterations int

	// BestRun is the index of the winning run in [0, RunTimes).
	BestRun int

	// RunEnergies holds the final energy of every run, in run order.
	RunEnergies []float64
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Kernel:            EuclideanKernel{},
		Init:              KMeansPlusPlusInit{},
		Method:            MethodHartigan,
		Criterion:         CriterionWeighted,
		RunTimes:          5,
		MaxIter:           300,
		RecomputeInterval: DefaultRecomputeInterval,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Kernel == nil {
		cfg.Kernel = EuclideanKernel{}
	}
	if cfg.Init == nil {
		cfg.Init = KMeansPlusPlusInit{}
	}
	if cfg.Method == "" {
		cfg.Method = MethodHartigan
	}
	if cfg.Criterion == "" {
		cfg.Criterion = CriterionWeighted
	}
	if cfg.RunTimes == 0 {
		cfg.RunTimes = 5
	}
	if cfg.MaxIter == 0 {
		cfg.MaxIter = 300
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.RunTimes < 1 {
		return fmt.Errorf("eclust: RunTimes must be >= 1, got %d", cfg.RunTimes)
	}
	if cfg.MaxIter < 1 {
		return fmt.Errorf("eclust: MaxIter must be >= 1, got %d", cfg.MaxIter)
	}
	if cfg.RecomputeInterval < 0 {
		return fmt.Errorf("eclust: RecomputeInterval must be >= 0, got %d", cfg.RecomputeInterval)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("eclust: Workers must be >= 0 (0 means runtime.NumCPU()), got %d", cfg.Workers)
	}
	switch cfg.Method {
	case MethodHartigan, MethodLloyd:
		// valid
	default:
		return fmt.Errorf("eclust: invalid Method %q", cfg.Method)
	}
	switch cfg.Criterion {
	case CriterionWeighted, CriterionPairwise:
		// valid
	default:
		return fmt.Errorf("eclust: invalid Criterion %q", cfg.Criterion)
	}
	return validateKernel(cfg.Kernel)
}

// validateKernel checks the parameters of the built-in kernels.
func validateKernel(kernel Kernel) error {
	switch kv := kernel.(type) {
	case PowerKernel:
		if kv.Alpha <= 0 || kv.Alpha > 2 {
			return fmt.Errorf("eclust: PowerKernel Alpha must be in (0, 2], got %g", kv.Alpha)
		}
	case GaussianKernel:
		if kv.Sigma <= 0 {
			return fmt.Errorf("eclust: GaussianKernel Sigma must be > 0, got %g", kv.Sigma)
		}
	case MinkowskiKernel:
		if kv.P < 1 {
			return fmt.Errorf("eclust: MinkowskiKernel P must be >= 1, got %g", kv.P)
		}
	}
	return nil
}

func checkK(k, n int) error {
	if k < 2 || k > n {
		return fmt.Errorf("eclust: k must be in [2, %d], got %d: %w", n, k, ErrInvalidK)
	}
	return nil
}

// Cluster partitions points into k clusters by maximizing the energy
// statistic. Each element is a point; all points must have the same
// dimensionality.
//
// Errors wrap ErrEmptyInput, ErrInvalidK or ErrDimensionMismatch, or report
// an invalid Config.
func Cluster(points [][]float64, k int, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, ErrEmptyInput
	}
	if err := checkK(k, len(points)); err != nil {
		return nil, err
	}

	km, err := NewKernelMatrixParallel(points, cfg.Kernel, cfg.Workers)
	if err != nil {
		return nil, err
	}
	return clusterMatrix(km, k, cfg)
}

// ClusterPrecomputed runs energy clustering on a prebuilt kernel matrix.
// Config.Kernel is ignored since the scores are already computed.
func ClusterPrecomputed(km *KernelMatrix, k int, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if km == nil || km.N() == 0 {
		return nil, ErrEmptyInput
	}
	if err := checkK(k, km.N()); err != nil {
		return nil, err
	}
	return clusterMatrix(km, k, cfg)
}

// runResult is the outcome of one independent run.
type runResult struct {
	labels []int
	energy float64
	optimizeResult
}

// clusterMatrix executes cfg.RunTimes runs and keeps the best one.
func clusterMatrix(km *KernelMatrix, k int, cfg Config) (*Result, error) {
	// Derive every run seed up front so the outcome does not depend on the
	// order in which runs are scheduled.
	master := rand.New(rand.NewPCG(cfg.Seed, seedStream))
	seeds := make([]uint64, cfg.RunTimes)
	for r := range seeds {
		seeds[r] = master.Uint64()
	}

	runs := make([]runResult, cfg.RunTimes)
	var g errgroup.Group
	g.SetLimit(max(cfg.Workers, 1))
	for r := range runs {
		g.Go(func() error {
			res, err := runOnce(km, k, cfg, r, seeds[r])
			if err != nil {
				return fmt.Errorf("eclust: run %d: %w", r, err)
			}
			runs[r] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := 0
	energies := make([]float64, len(runs))
	for r, run := range runs {
		energies[r] = run.energy
		if run.energy > runs[best].energy {
			best = r
		}
	}
	cfg.Logger.Debug("energy clustering finished",
		"n", km.N(),
		"k", k,
		"method", string(cfg.Method),
		"criterion", string(cfg.Criterion),
		"runs", cfg.RunTimes,
		"best_run", best,
		"energy", runs[best].energy,
	)

	return &Result{
		Labels:      runs[best].labels,
		Energy:      runs[best].energy,
		Converged:   runs[best].converged,
		Iterations:  runs[best].iterations,
		BestRun:     best,
		RunEnergies: energies,
	}, nil
}

// runOnce initializes and optimizes one partition with its own generator.
// Nothing mutable is shared with other runs.
func runOnce(km *KernelMatrix, k int, cfg Config, run int, seed uint64) (runResult, error) {
	rng := rand.New(rand.NewPCG(seed, uint64(run)))
	log := cfg.Logger.With("run", run)

	labels, err := cfg.Init.Initialize(km, k, rng)
	if errors.Is(err, ErrNumericalDegeneracy) {
		log.Warn("initialization degenerate, falling back to random seeding", "error", err)
		labels, err = RandomInit{}.Initialize(km, k, rng)
	}
	if err != nil {
		return runResult{}, err
	}
	if len(labels) != km.N() {
		return runResult{}, fmt.Errorf("initializer returned %d labels for %d points", len(labels), km.N())
	}
	for i, c := range labels {
		if c < 0 || c >= k {
			return runResult{}, fmt.Errorf("initializer assigned point %d to cluster %d outside [0, %d)", i, c, k)
		}
	}
	if moved := fillEmptyClusters(km, labels, k); moved > 0 {
		log.Debug("filled empty clusters after initialization", "moved", moved)
	}

	opt, err := newOptimizer(cfg, rng)
	if err != nil {
		return runResult{}, err
	}
	stats := newClusterStats(km, labels, k, cfg.Criterion, cfg.RecomputeInterval)
	res := opt.optimize(stats)

	// Report the energy from exact sums, not the incrementally updated ones.
	stats.recompute()
	energy := stats.energy()

	switch {
	case res.stalled:
		log.Debug("optimizer stopped: next batch step would lower the energy", "iteration", res.iterations, "energy", energy)
	case !res.converged:
		log.Debug("optimizer stopped at iteration limit", "max_iter", cfg.MaxIter, "energy", energy)
	}
	log.Debug("run finished",
		"iterations", res.iterations,
		"moves", res.moves,
		"converged", res.converged,
		"energy", energy,
	)
	return runResult{labels: stats.labels, energy: energy, optimizeResult: res}, nil
}
