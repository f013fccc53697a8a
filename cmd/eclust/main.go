// Package main provides the eclust command-line tool.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/TrevorS/eclust"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "eclust",
		Short: "Energy-statistics clustering",
		Long: `eclust partitions points into k clusters by maximizing the energy
statistic, a kernel-based measure of between-cluster separation minus
within-cluster spread.

Points are read as comma-separated rows, one point per row. Labels are
written to stdout, one per line; the summary goes to stderr.`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text, json")

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "eclust v%s (%s)\n", version, commit)
		},
	})

	// Cluster command
	clusterCmd := &cobra.Command{
		Use:   "cluster",
		Short: "Cluster points read from a CSV file",
		RunE:  runCluster,
	}
	clusterCmd.Flags().StringP("input", "i", "-", "points CSV file, - for stdin")
	clusterCmd.Flags().IntP("k", "k", 2, "number of clusters")
	clusterCmd.Flags().String("truth", "", "ground-truth labels CSV; reports accuracy when set")
	clusterCmd.Flags().Int("truth-column", 0, "zero-based column of the ground-truth labels")
	addClusterFlags(clusterCmd)
	rootCmd.AddCommand(clusterCmd)

	// One-dimensional exact command
	onedCmd := &cobra.Command{
		Use:   "oned",
		Short: "Exact two-cluster split of one-dimensional data",
		RunE:  runOneD,
	}
	onedCmd.Flags().StringP("input", "i", "-", "values CSV file, - for stdin")
	onedCmd.Flags().Int("column", 0, "zero-based column holding the values")
	onedCmd.Flags().String("criterion", string(eclust.CriterionWeighted), "energy criterion: weighted, pairwise")
	onedCmd.Flags().String("truth", "", "ground-truth labels CSV; reports accuracy when set")
	onedCmd.Flags().Int("truth-column", 0, "zero-based column of the ground-truth labels")
	rootCmd.AddCommand(onedCmd)

	// Sample command
	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a two-Gaussian one-dimensional dataset",
		RunE:  runSample,
	}
	sampleCmd.Flags().Int("n", 100, "total number of values, split evenly")
	sampleCmd.Flags().Float64("mu1", 0, "mean of the first component")
	sampleCmd.Flags().Float64("sigma1", 1, "standard deviation of the first component")
	sampleCmd.Flags().Float64("mu2", 5, "mean of the second component")
	sampleCmd.Flags().Float64("sigma2", 2, "standard deviation of the second component")
	sampleCmd.Flags().Uint64("seed", 1, "random seed")
	rootCmd.AddCommand(sampleCmd)

	return rootCmd
}

func loggerFor(cmd *cobra.Command) (*slog.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	return newLogger(cmd.ErrOrStderr(), level, format)
}

func runCluster(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	k, _ := cmd.Flags().GetInt("k")

	fc, err := resolveFileConfig(cmd)
	if err != nil {
		return err
	}
	cfg, err := fc.Config()
	if err != nil {
		return err
	}
	if cfg.Logger, err = loggerFor(cmd); err != nil {
		return err
	}

	points, err := readPoints(input)
	if err != nil {
		return fmt.Errorf("reading points: %w", err)
	}
	cfg.Logger.Info("clustering", "points", len(points), "k", k, "kernel", fc.Kernel,
		"init", fc.Init, "method", fc.Method, "criterion", fc.Criterion)

	result, err := eclust.Cluster(points, k, cfg)
	if err != nil {
		return err
	}
	if err := writeLabels(cmd.OutOrStdout(), result.Labels); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "energy=%g converged=%t iterations=%d best_run=%d\n",
		result.Energy, result.Converged, result.Iterations, result.BestRun)
	return reportAccuracy(cmd, result.Labels)
}

func runOneD(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	column, _ := cmd.Flags().GetInt("column")
	name, _ := cmd.Flags().GetString("criterion")

	criterion, err := ParseCriterion(name)
	if err != nil {
		return err
	}
	values, err := readColumn(input, column)
	if err != nil {
		return fmt.Errorf("reading values: %w", err)
	}
	result, err := eclust.Cluster1D(values, criterion)
	if err != nil {
		return err
	}
	if err := writeLabels(cmd.OutOrStdout(), result.Labels); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "energy=%g\n", result.Energy)
	return reportAccuracy(cmd, result.Labels)
}

// reportAccuracy scores labels against --truth, if given.
func reportAccuracy(cmd *cobra.Command, labels []int) error {
	truthPath, _ := cmd.Flags().GetString("truth")
	column, _ := cmd.Flags().GetInt("truth-column")
	if truthPath == "" {
		return nil
	}
	truth, err := readLabels(truthPath, column)
	if err != nil {
		return fmt.Errorf("reading ground truth: %w", err)
	}
	acc, err := eclust.Accuracy(labels, truth)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "accuracy=%.4f\n", acc)
	return nil
}

func runSample(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("n")
	mu1, _ := cmd.Flags().GetFloat64("mu1")
	sigma1, _ := cmd.Flags().GetFloat64("sigma1")
	mu2, _ := cmd.Flags().GetFloat64("mu2")
	sigma2, _ := cmd.Flags().GetFloat64("sigma2")
	seed, _ := cmd.Flags().GetUint64("seed")

	if n < 2 {
		return fmt.Errorf("n must be >= 2, got %d", n)
	}
	if sigma1 <= 0 || sigma2 <= 0 {
		return fmt.Errorf("standard deviations must be > 0")
	}

	src := rand.NewPCG(seed, 0)
	first := distuv.Normal{Mu: mu1, Sigma: sigma1, Src: src}
	second := distuv.Normal{Mu: mu2, Sigma: sigma2, Src: src}

	values := make([]float64, n)
	truth := make([]int, n)
	for i := range values {
		if i < n/2 {
			values[i] = first.Rand()
		} else {
			values[i] = second.Rand()
			truth[i] = 1
		}
	}
	return writeSample(cmd.OutOrStdout(), values, truth)
}
