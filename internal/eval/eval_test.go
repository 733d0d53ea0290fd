package eval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(pos, neg int) []int {
	y := make([]int, 0, pos+neg)
	for i := 0; i < pos; i++ {
		y = append(y, 1)
	}
	for i := 0; i < neg; i++ {
		y = append(y, 0)
	}
	return y
}

func TestStratifiedSplitPreservesBalance(t *testing.T) {
	y := labels(30, 70)

	trainIdx, testIdx, err := StratifiedSplit(y, 0.2, 42)
	require.NoError(t, err)

	assert.Len(t, testIdx, 20)
	assert.Len(t, trainIdx, 80)

	var testPos int
	for _, idx := range testIdx {
		if y[idx] == 1 {
			testPos++
		}
	}
	assert.Equal(t, 6, testPos)

	// No overlap, full coverage.
	seen := make(map[int]struct{})
	for _, idx := range append(append([]int{}, trainIdx...), testIdx...) {
		_, dup := seen[idx]
		assert.False(t, dup, "index %d assigned twice", idx)
		seen[idx] = struct{}{}
	}
	assert.Len(t, seen, len(y))
}

func TestStratifiedSplitDeterministic(t *testing.T) {
	y := labels(25, 25)

	train1, test1, err := StratifiedSplit(y, 0.2, 7)
	require.NoError(t, err)
	train2, test2, err := StratifiedSplit(y, 0.2, 7)
	require.NoError(t, err)

	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)
}

func TestStratifiedSplitValidation(t *testing.T) {
	_, _, err := StratifiedSplit([]int{1, 0}, 0.2, 1)
	assert.Error(t, err)

	_, _, err = StratifiedSplit(labels(5, 5), 0, 1)
	assert.Error(t, err)

	_, _, err = StratifiedSplit(labels(10, 1), 0.2, 1)
	assert.Error(t, err, "a class with one sample cannot be stratified")
}

func TestStratifiedKFold(t *testing.T) {
	y := labels(20, 30)

	folds, err := StratifiedKFold(y, 5, 42)
	require.NoError(t, err)
	require.Len(t, folds, 5)

	seen := make(map[int]struct{})
	for _, fold := range folds {
		assert.Len(t, fold, 10)
		var pos int
		for _, idx := range fold {
			if y[idx] == 1 {
				pos++
			}
			seen[idx] = struct{}{}
		}
		assert.Equal(t, 4, pos, "each fold keeps the 40%% positive rate")
	}
	assert.Len(t, seen, len(y))
}

func TestStratifiedKFoldValidation(t *testing.T) {
	_, err := StratifiedKFold(labels(10, 10), 1, 1)
	assert.Error(t, err)

	_, err = StratifiedKFold(labels(3, 20), 5, 1)
	assert.Error(t, err)
}

func TestROCAUCPerfectRanking(t *testing.T) {
	y := []int{0, 0, 1, 1}
	auc, err := ROCAUC(y, []float64{0.1, 0.2, 0.8, 0.9})
	require.NoError(t, err)
	assert.InDelta(t, 1, auc, 1e-12)

	auc, err = ROCAUC(y, []float64{0.9, 0.8, 0.2, 0.1})
	require.NoError(t, err)
	assert.InDelta(t, 0, auc, 1e-12)
}

func TestROCAUCTiedScores(t *testing.T) {
	auc, err := ROCAUC([]int{0, 1, 0, 1}, []float64{0.5, 0.5, 0.5, 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, auc, 1e-12)
}

func TestROCAUCValidation(t *testing.T) {
	_, err := ROCAUC([]int{1}, []float64{0.5, 0.4})
	assert.Error(t, err)

	_, err = ROCAUC([]int{1, 1}, []float64{0.5, 0.4})
	assert.Error(t, err)
}

func TestWeightedF1(t *testing.T) {
	yTrue := []int{1, 1, 1, 0, 0, 0}
	yPred := []int{1, 1, 1, 0, 0, 0}

	f1, err := WeightedF1(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 1, f1, 1e-12)

	// All wrong: both per-class F1 scores are 0.
	yPred = []int{0, 0, 0, 1, 1, 1}
	f1, err = WeightedF1(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0, f1, 1e-12)
}

func TestWeightedF1Imbalanced(t *testing.T) {
	// 4 positives, 1 negative; one positive missed.
	yTrue := []int{1, 1, 1, 1, 0}
	yPred := []int{1, 1, 1, 0, 0}

	f1, err := WeightedF1(yTrue, yPred)
	require.NoError(t, err)

	// class 1: precision 1, recall 0.75 -> f1 = 6/7, weight 0.8
	// class 0: precision 0.5, recall 1 -> f1 = 2/3, weight 0.2
	want := (6.0/7.0)*0.8 + (2.0/3.0)*0.2
	assert.InDelta(t, want, f1, 1e-12)
}

func TestConfusionCounts(t *testing.T) {
	yTrue := []int{0, 0, 1, 1, 1}
	yPred := []int{0, 1, 1, 1, 0}

	c, err := ConfusionCounts(yTrue, yPred)
	require.NoError(t, err)
	assert.Equal(t, 1, c.TrueNegative)
	assert.Equal(t, 1, c.FalsePositive)
	assert.Equal(t, 1, c.FalseNegative)
	assert.Equal(t, 2, c.TruePositive)
}

func TestCrossValidate(t *testing.T) {
	y := labels(20, 20)
	x := make([][]float64, len(y))
	for i := range x {
		x[i] = []float64{float64(y[i])}
	}

	result, err := CrossValidate(context.Background(), x, y, 4, 42,
		func(_ [][]float64, _ []int, testX [][]float64, testY []int) (float64, error) {
			scores := make([]float64, len(testX))
			for i, row := range testX {
				scores[i] = row[0]
			}
			return ROCAUC(testY, scores)
		})
	require.NoError(t, err)

	require.Len(t, result.Scores, 4)
	assert.InDelta(t, 1, result.Mean, 1e-12)
	assert.InDelta(t, 0, result.Std, 1e-12)
}

func TestCrossValidatePropagatesFoldError(t *testing.T) {
	y := labels(10, 10)
	x := make([][]float64, len(y))
	for i := range x {
		x[i] = []float64{0}
	}

	boom := errors.New("boom")
	_, err := CrossValidate(context.Background(), x, y, 2, 1,
		func(_ [][]float64, _ []int, _ [][]float64, _ []int) (float64, error) {
			return 0, boom
		})
	assert.ErrorIs(t, err, boom)
}
