package eval

import (
	"fmt"
	"sort"

	"github.com/mindsage/mindsage/internal/model"
)

// ROCAUC computes the area under the ROC curve from positive-class scores,
// using the rank statistic with average ranks for tied scores.
func ROCAUC(yTrue []int, scores []float64) (float64, error) {
	if len(yTrue) != len(scores) {
		return 0, fmt.Errorf("have %d labels but %d scores", len(yTrue), len(scores))
	}

	var pos, neg int
	for _, label := range yTrue {
		if label == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0, fmt.Errorf("ROC-AUC requires both classes (positive=%d negative=%d)", pos, neg)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return scores[order[i]] < scores[order[j]]
	})

	// Average ranks across tied score groups.
	ranks := make([]float64, len(scores))
	for i := 0; i < len(order); {
		j := i
		for j < len(order) && scores[order[j]] == scores[order[i]] {
			j++
		}
		avg := float64(i+j+1) / 2 // ranks are 1-based
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		i = j
	}

	var posRankSum float64
	for i, label := range yTrue {
		if label == 1 {
			posRankSum += ranks[i]
		}
	}

	nPos := float64(pos)
	nNeg := float64(neg)
	return (posRankSum - nPos*(nPos+1)/2) / (nPos * nNeg), nil
}

// WeightedF1 computes the support-weighted mean of the per-class F1 scores.
func WeightedF1(yTrue, yPred []int) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("have %d labels but %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, fmt.Errorf("cannot compute F1 on empty input")
	}

	total := float64(len(yTrue))
	weighted := 0.0

	for _, class := range []int{0, 1} {
		var tp, fp, fn, support float64
		for i := range yTrue {
			truth := yTrue[i] == class
			pred := yPred[i] == class
			if truth {
				support++
			}
			switch {
			case truth && pred:
				tp++
			case !truth && pred:
				fp++
			case truth && !pred:
				fn++
			}
		}
		if support == 0 {
			continue
		}

		var f1 float64
		if tp > 0 {
			precision := tp / (tp + fp)
			recall := tp / (tp + fn)
			f1 = 2 * precision * recall / (precision + recall)
		}
		weighted += f1 * support / total
	}

	return weighted, nil
}

// ConfusionCounts tallies the four confusion cells for the positive class.
func ConfusionCounts(yTrue, yPred []int) (model.Confusion, error) {
	if len(yTrue) != len(yPred) {
		return model.Confusion{}, fmt.Errorf("have %d labels but %d predictions", len(yTrue), len(yPred))
	}

	var c model.Confusion
	for i := range yTrue {
		switch {
		case yTrue[i] == 0 && yPred[i] == 0:
			c.TrueNegative++
		case yTrue[i] == 0 && yPred[i] == 1:
			c.FalsePositive++
		case yTrue[i] == 1 && yPred[i] == 0:
			c.FalseNegative++
		default:
			c.TruePositive++
		}
	}
	return c, nil
}
