package eclust

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat/combin"
)

// maxExactLabels is the largest label count for which Accuracy searches
// every label permutation (8! = 40320 alignments).
const maxExactLabels = 8

// Accuracy returns the fraction of points whose predicted label matches the
// ground truth under the best one-to-one alignment of predicted to true
// labels. Labels must be non-negative but need not be contiguous. Up to
// maxExactLabels distinct labels the alignment is exact; beyond that it is
// built greedily from the largest contingency counts down.
func Accuracy(labels, truth []int) (float64, error) {
	if len(labels) != len(truth) {
		return 0, fmt.Errorf("eclust: %d labels vs %d ground-truth labels: %w",
			len(labels), len(truth), ErrDimensionMismatch)
	}
	if len(labels) == 0 {
		return 0, ErrEmptyInput
	}
	for i := range labels {
		if labels[i] < 0 || truth[i] < 0 {
			return 0, fmt.Errorf("eclust: negative label at index %d", i)
		}
	}

	predicted, predCount := denseIDs(labels)
	actual, trueCount := denseIDs(truth)
	size := max(predCount, trueCount)

	// counts[p*size+t] = #points with predicted p and true t.
	counts := make([]int, size*size)
	for i := range predicted {
		counts[predicted[i]*size+actual[i]]++
	}

	var matched int
	if size <= maxExactLabels {
		matched = bestPermutationMatch(counts, size)
	} else {
		matched = greedyMatch(counts, size)
	}
	return float64(matched) / float64(len(labels)), nil
}

// denseIDs renumbers labels to 0..m-1 in order of first appearance and
// returns the renumbered slice with m.
func denseIDs(labels []int) ([]int, int) {
	ids := make(map[int]int)
	dense := make([]int, len(labels))
	for i, l := range labels {
		id, ok := ids[l]
		if !ok {
			id = len(ids)
			ids[l] = id
		}
		dense[i] = id
	}
	return dense, len(ids)
}

func bestPermutationMatch(counts []int, size int) int {
	best := 0
	for _, perm := range combin.Permutations(size, size) {
		total := 0
		for p, t := range perm {
			total += counts[p*size+t]
		}
		best = max(best, total)
	}
	return best
}

func greedyMatch(counts []int, size int) int {
	cells := make([]int, len(counts))
	for i := range cells {
		cells[i] = i
	}
	slices.SortStableFunc(cells, func(a, b int) int { return counts[b] - counts[a] })

	usedP := make([]bool, size)
	usedT := make([]bool, size)
	total := 0
	for _, cell := range cells {
		p, t := cell/size, cell%size
		if usedP[p] || usedT[t] {
			continue
		}
		usedP[p], usedT[t] = true, true
		total += counts[cell]
	}
	return total
}
