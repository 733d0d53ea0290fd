package eval

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

// FoldScoreFunc fits a model on the train partition and returns one score
// for the held-out partition. Implementations must be pure with respect to
// their inputs; folds run concurrently.
type FoldScoreFunc func(trainX [][]float64, trainY []int, testX [][]float64, testY []int) (float64, error)

// CVResult holds cross-validation scores and their summary statistics.
type CVResult struct {
	Scores []float64
	Mean   float64
	Std    float64
}

// CrossValidate runs stratified k-fold cross-validation, scoring each fold
// with fn. Folds are fitted in parallel; the fold assignment and therefore
// the result is deterministic for a given seed.
func CrossValidate(ctx context.Context, x [][]float64, y []int, k int, seed int64, fn FoldScoreFunc) (CVResult, error) {
	folds, err := StratifiedKFold(y, k, seed)
	if err != nil {
		return CVResult{}, err
	}

	scores := make([]float64, k)
	g, ctx := errgroup.WithContext(ctx)

	for i, holdout := range folds {
		i, holdout := i, holdout
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			inFold := make(map[int]struct{}, len(holdout))
			for _, idx := range holdout {
				inFold[idx] = struct{}{}
			}
			var trainIdx []int
			for idx := range y {
				if _, held := inFold[idx]; !held {
					trainIdx = append(trainIdx, idx)
				}
			}

			score, foldErr := fn(
				Gather(x, trainIdx), GatherLabels(y, trainIdx),
				Gather(x, holdout), GatherLabels(y, holdout),
			)
			if foldErr != nil {
				return fmt.Errorf("fold %d: %w", i, foldErr)
			}
			scores[i] = score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return CVResult{}, err
	}

	mean := 0.0
	for _, s := range scores {
		mean += s
	}
	mean /= float64(k)

	variance := 0.0
	for _, s := range scores {
		d := s - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(k))

	return CVResult{Scores: scores, Mean: mean, Std: std}, nil
}
