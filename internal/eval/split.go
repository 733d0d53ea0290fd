// Package eval provides model evaluation utilities: stratified splitting,
// stratified k-fold cross-validation, and classification metrics.
package eval

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// StratifiedSplit partitions row indices into train and test sets,
// preserving the label balance in both. The split is deterministic for a
// given seed.
func StratifiedSplit(y []int, testSize float64, seed int64) (trainIdx, testIdx []int, err error) {
	if len(y) < 4 {
		return nil, nil, fmt.Errorf("need at least 4 samples to split, have %d", len(y))
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}

	rng := rand.New(rand.NewSource(seed))

	for _, class := range []int{0, 1} {
		var classIdx []int
		for i, label := range y {
			if label == class {
				classIdx = append(classIdx, i)
			}
		}
		if len(classIdx) < 2 {
			return nil, nil, fmt.Errorf("class %d has %d samples, need at least 2 to stratify", class, len(classIdx))
		}

		rng.Shuffle(len(classIdx), func(i, j int) {
			classIdx[i], classIdx[j] = classIdx[j], classIdx[i]
		})

		nTest := int(math.Round(testSize * float64(len(classIdx))))
		if nTest < 1 {
			nTest = 1
		}
		if nTest >= len(classIdx) {
			nTest = len(classIdx) - 1
		}

		testIdx = append(testIdx, classIdx[:nTest]...)
		trainIdx = append(trainIdx, classIdx[nTest:]...)
	}

	sort.Ints(trainIdx)
	sort.Ints(testIdx)
	return trainIdx, testIdx, nil
}

// StratifiedKFold assigns every row to one of k folds, keeping the label
// balance of each fold close to the corpus balance. It returns the held-out
// index set of each fold.
func StratifiedKFold(y []int, k int, seed int64) ([][]int, error) {
	if k < 2 {
		return nil, fmt.Errorf("fold count must be at least 2, got %d", k)
	}

	rng := rand.New(rand.NewSource(seed))
	folds := make([][]int, k)

	for _, class := range []int{0, 1} {
		var classIdx []int
		for i, label := range y {
			if label == class {
				classIdx = append(classIdx, i)
			}
		}
		if len(classIdx) < k {
			return nil, fmt.Errorf("class %d has %d samples, fewer than %d folds", class, len(classIdx), k)
		}

		rng.Shuffle(len(classIdx), func(i, j int) {
			classIdx[i], classIdx[j] = classIdx[j], classIdx[i]
		})

		for i, idx := range classIdx {
			fold := i % k
			folds[fold] = append(folds[fold], idx)
		}
	}

	for _, fold := range folds {
		sort.Ints(fold)
	}
	return folds, nil
}

// Gather selects the given rows of a matrix.
func Gather(x [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, r := range idx {
		out[i] = x[r]
	}
	return out
}

// GatherLabels selects the given entries of a label slice.
func GatherLabels(y []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, r := range idx {
		out[i] = y[r]
	}
	return out
}
