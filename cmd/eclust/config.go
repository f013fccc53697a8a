package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/TrevorS/eclust"
)

// FileConfig is the YAML form of the clustering options. Names are resolved
// to library types by Config.
//
// Example:
//
//	kernel: power
//	alpha: 1.5
//	init: kmeans++
//	method: hartigan
//	criterion: weighted
//	runs: 10
//	seed: 42
type FileConfig struct {
	Kernel            string  `yaml:"kernel"`
	Alpha             float64 `yaml:"alpha"`
	Sigma             float64 `yaml:"sigma"`
	P                 float64 `yaml:"p"`
	Init              string  `yaml:"init"`
	Method            string  `yaml:"method"`
	Criterion         string  `yaml:"criterion"`
	Runs              int     `yaml:"runs"`
	MaxIter           int     `yaml:"max_iter"`
	Seed              uint64  `yaml:"seed"`
	RecomputeInterval int     `yaml:"recompute_interval"`
	Shuffle           bool    `yaml:"shuffle"`
	Workers           int     `yaml:"workers"`
}

// DefaultFileConfig mirrors eclust.DefaultConfig.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Kernel:            "euclidean",
		Alpha:             1,
		Sigma:             1,
		P:                 2,
		Init:              "kmeans++",
		Method:            string(eclust.MethodHartigan),
		Criterion:         string(eclust.CriterionWeighted),
		Runs:              5,
		MaxIter:           300,
		RecomputeInterval: eclust.DefaultRecomputeInterval,
	}
}

// LoadFileConfig reads a YAML file over the defaults. Keys missing from the
// file keep their default values.
func LoadFileConfig(path string) (FileConfig, error) {
	cfg := DefaultFileConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// addClusterFlags registers the flags that override FileConfig fields.
func addClusterFlags(cmd *cobra.Command) {
	def := DefaultFileConfig()
	f := cmd.Flags()
	f.String("config", "", "YAML config file; flags given explicitly override it")
	f.String("kernel", def.Kernel, "kernel: euclidean, power, manhattan, chebyshev, minkowski, gaussian")
	f.Float64("alpha", def.Alpha, "exponent of the power kernel, in (0, 2]")
	f.Float64("sigma", def.Sigma, "bandwidth of the gaussian kernel")
	f.Float64("p", def.P, "order of the minkowski kernel")
	f.String("init", def.Init, "initialization: random, kmeans++, spectral")
	f.String("method", def.Method, "optimizer: hartigan, lloyd")
	f.String("criterion", def.Criterion, "energy criterion: weighted, pairwise")
	f.Int("runs", def.Runs, "number of independently initialized runs")
	f.Int("max-iter", def.MaxIter, "maximum scans (hartigan) or iterations (lloyd) per run")
	f.Uint64("seed", def.Seed, "random seed")
	f.Int("recompute-interval", def.RecomputeInterval, "moves between exact statistics rebuilds, 0 disables")
	f.Bool("shuffle", def.Shuffle, "visit points in random order on every hartigan scan")
	f.Int("workers", def.Workers, "goroutines for the kernel matrix and runs, 0 means all CPUs")
}

// resolveFileConfig loads --config if given, then applies every flag the
// user set explicitly.
func resolveFileConfig(cmd *cobra.Command) (FileConfig, error) {
	f := cmd.Flags()
	cfg := DefaultFileConfig()
	if path, _ := f.GetString("config"); path != "" {
		var err error
		if cfg, err = LoadFileConfig(path); err != nil {
			return cfg, err
		}
	}

	if f.Changed("kernel") {
		cfg.Kernel, _ = f.GetString("kernel")
	}
	if f.Changed("alpha") {
		cfg.Alpha, _ = f.GetFloat64("alpha")
	}
	if f.Changed("sigma") {
		cfg.Sigma, _ = f.GetFloat64("sigma")
	}
	if f.Changed("p") {
		cfg.P, _ = f.GetFloat64("p")
	}
	if f.Changed("init") {
		cfg.Init, _ = f.GetString("init")
	}
	if f.Changed("method") {
		cfg.Method, _ = f.GetString("method")
	}
	if f.Changed("criterion") {
		cfg.Criterion, _ = f.GetString("criterion")
	}
	if f.Changed("runs") {
		cfg.Runs, _ = f.GetInt("runs")
	}
	if f.Changed("max-iter") {
		cfg.MaxIter, _ = f.GetInt("max-iter")
	}
	if f.Changed("seed") {
		cfg.Seed, _ = f.GetUint64("seed")
	}
	if f.Changed("recompute-interval") {
		cfg.RecomputeInterval, _ = f.GetInt("recompute-interval")
	}
	if f.Changed("shuffle") {
		cfg.Shuffle, _ = f.GetBool("shuffle")
	}
	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
	}
	return cfg, nil
}

// Config converts the named options into an eclust.Config.
func (fc FileConfig) Config() (eclust.Config, error) {
	kernel, err := ParseKernel(fc.Kernel, fc.Alpha, fc.Sigma, fc.P)
	if err != nil {
		return eclust.Config{}, err
	}
	strategy, err := ParseInit(fc.Init)
	if err != nil {
		return eclust.Config{}, err
	}
	criterion, err := ParseCriterion(fc.Criterion)
	if err != nil {
		return eclust.Config{}, err
	}

	cfg := eclust.DefaultConfig()
	cfg.Kernel = kernel
	cfg.Init = strategy
	cfg.Method = eclust.Method(strings.ToLower(fc.Method))
	cfg.Criterion = criterion
	cfg.RunTimes = fc.Runs
	cfg.MaxIter = fc.MaxIter
	cfg.Seed = fc.Seed
	cfg.RecomputeInterval = fc.RecomputeInterval
	cfg.ShuffleOrder = fc.Shuffle
	cfg.Workers = fc.Workers
	return cfg, nil
}

// ParseKernel maps a kernel name and its parameter to an eclust.Kernel.
func ParseKernel(name string, alpha, sigma, p float64) (eclust.Kernel, error) {
	switch strings.ToLower(name) {
	case "", "euclidean", "l2":
		return eclust.EuclideanKernel{}, nil
	case "power":
		return eclust.PowerKernel{Alpha: alpha}, nil
	case "manhattan", "l1", "cityblock":
		return eclust.ManhattanKernel{}, nil
	case "chebyshev", "linf":
		return eclust.ChebyshevKernel{}, nil
	case "minkowski":
		return eclust.MinkowskiKernel{P: p}, nil
	case "gaussian", "rbf":
		return eclust.GaussianKernel{Sigma: sigma}, nil
	default:
		return nil, fmt.Errorf("unknown kernel %q", name)
	}
}

// ParseInit maps an initialization name to an eclust.Initializer.
func ParseInit(name string) (eclust.Initializer, error) {
	switch strings.ToLower(name) {
	case "", "kmeans++", "k-means++", "kmeanspp":
		return eclust.KMeansPlusPlusInit{}, nil
	case "random":
		return eclust.RandomInit{}, nil
	case "spectral":
		return eclust.SpectralInit{}, nil
	default:
		return nil, fmt.Errorf("unknown init %q", name)
	}
}

// ParseCriterion maps a criterion name to an eclust.Criterion.
func ParseCriterion(name string) (eclust.Criterion, error) {
	switch c := eclust.Criterion(strings.ToLower(name)); c {
	case "":
		return eclust.CriterionWeighted, nil
	case eclust.CriterionWeighted, eclust.CriterionPairwise:
		return c, nil
	default:
		return "", fmt.Errorf("unknown criterion %q", name)
	}
}
