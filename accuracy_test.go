package eclust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name   string
		labels []int
		truth  []int
		want   float64
	}{
		{"identical", []int{0, 0, 1, 1}, []int{0, 0, 1, 1}, 1},
		{"swapped", []int{1, 1, 0, 0}, []int{0, 0, 1, 1}, 1},
		{"one wrong", []int{0, 0, 0, 1}, []int{0, 0, 1, 1}, 0.75},
		{"three labels permuted", []int{2, 2, 0, 0, 1, 1}, []int{0, 0, 1, 1, 2, 2}, 1},
		{"fewer predicted labels", []int{0, 0, 0, 0}, []int{0, 0, 1, 1}, 0.5},
		{"more predicted labels", []int{0, 1, 2, 3}, []int{0, 0, 1, 1}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(tt.labels, tt.truth)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestAccuracy_ManyLabelsGreedy(t *testing.T) {
	// Ten labels, rotated by one: greedy matching recovers the rotation.
	var labels, truth []int
	for c := 0; c < 10; c++ {
		for i := 0; i < 3; i++ {
			labels = append(labels, (c+1)%10)
			truth = append(truth, c)
		}
	}
	labels[0] = 5

	got, err := Accuracy(labels, truth)
	require.NoError(t, err)
	assert.InDelta(t, 29.0/30, got, 1e-12)
}

func TestAccuracy_SparseAndLargeIDs(t *testing.T) {
	got, err := Accuracy([]int{0, 0, 1, 1}, []int{0, 0, 1 << 40, 1 << 40})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	// Three classes with ids 10, 20, 30 still get the exact alignment:
	// 7->20, 3->10, 5->30 matches 9 points where greedy matching finds 6.
	var labels, truth []int
	add := func(label, class, count int) {
		for range count {
			labels = append(labels, label)
			truth = append(truth, class)
		}
	}
	add(7, 10, 5)
	add(7, 20, 4)
	add(3, 10, 4)
	add(5, 30, 1)
	got, err = Accuracy(labels, truth)
	require.NoError(t, err)
	assert.InDelta(t, 9.0/14, got, 1e-12)
}

func TestDenseIDs(t *testing.T) {
	dense, m := denseIDs([]int{42, 7, 42, 1 << 50, 7})
	assert.Equal(t, []int{0, 1, 0, 2, 1}, dense)
	assert.Equal(t, 3, m)
}

func TestAccuracy_Errors(t *testing.T) {
	_, err := Accuracy([]int{0, 1}, []int{0})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = Accuracy(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Accuracy([]int{0, -1}, []int{0, 1})
	assert.Error(t, err)
}
