// Package boost implements a gradient-boosted tree classifier for binary
// outcomes: logistic loss, second-order splits, row/column subsampling, and
// gain-based global feature importances. Training is deterministic for a
// given seed, and a fitted classifier is immutable and safe for concurrent
// prediction.
package boost

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
)

// Params are the boosting hyperparameters. They are treated as a fixed
// contract, not searched over.
type Params struct {
	Rounds         int     `json:"rounds"`
	MaxDepth       int     `json:"max_depth"`
	LearningRate   float64 `json:"learning_rate"`
	Subsample      float64 `json:"subsample"`
	ColSample      float64 `json:"colsample"`
	MinChildWeight float64 `json:"min_child_weight"`
	Gamma          float64 `json:"gamma"`
	RegAlpha       float64 `json:"reg_alpha"`
	RegLambda      float64 `json:"reg_lambda"`
	// ScalePosWeight multiplies the positive-class sample weight to correct
	// class imbalance. Fit sets it to negative_count/positive_count when
	// left at 0.
	ScalePosWeight float64 `json:"scale_pos_weight"`
	Seed           int64   `json:"seed"`
}

// DefaultParams returns the fixed training configuration.
func DefaultParams() Params {
	return Params{
		Rounds:         200,
		MaxDepth:       6,
		LearningRate:   0.1,
		Subsample:      0.8,
		ColSample:      0.8,
		MinChildWeight: 1,
		Gamma:          0,
		RegAlpha:       0.1,
		RegLambda:      1,
		Seed:           42,
	}
}

// Classifier is a fitted boosted-tree model.
type Classifier struct {
	params      Params
	trees       []tree
	importances []float64
	numFeatures int
}

// Fit trains a classifier on an encoded, scaled matrix with 0/1 labels.
func Fit(x [][]float64, y []int, params Params) (*Classifier, error) {
	return FitWithProgress(x, y, params, nil)
}

// FitWithProgress trains like Fit and invokes onRound after each boosting
// round, for progress reporting.
func FitWithProgress(x [][]float64, y []int, params Params, onRound func(round int)) (*Classifier, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("cannot fit on an empty matrix")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("matrix has %d rows but %d labels", len(x), len(y))
	}
	numFeatures := len(x[0])
	if numFeatures == 0 {
		return nil, fmt.Errorf("cannot fit on zero-width rows")
	}
	for i, row := range x {
		if len(row) != numFeatures {
			return nil, fmt.Errorf("ragged matrix: row %d has %d columns, want %d", i, len(row), numFeatures)
		}
	}

	var posCount, negCount int
	for i, label := range y {
		switch label {
		case 0:
			negCount++
		case 1:
			posCount++
		default:
			return nil, fmt.Errorf("label at index %d is %d, want 0 or 1", i, label)
		}
	}
	if posCount == 0 || negCount == 0 {
		return nil, fmt.Errorf("training labels must contain both classes (positive=%d negative=%d)", posCount, negCount)
	}

	if params.ScalePosWeight == 0 {
		params.ScalePosWeight = float64(negCount) / float64(posCount)
	}

	n := len(x)
	rng := rand.New(rand.NewSource(params.Seed))

	margins := make([]float64, n)
	grad := make([]float64, n)
	hess := make([]float64, n)
	featureGain := make([]float64, numFeatures)

	builder := &treeBuilder{
		x:           x,
		grad:        grad,
		hess:        hess,
		params:      params,
		featureGain: featureGain,
	}

	trees := make([]tree, 0, params.Rounds)
	allFeatures := make([]int, numFeatures)
	for i := range allFeatures {
		allFeatures[i] = i
	}

	for round := 0; round < params.Rounds; round++ {
		for i := range x {
			p := sigmoid(margins[i])
			w := 1.0
			target := 0.0
			if y[i] == 1 {
				w = params.ScalePosWeight
				target = 1
			}
			grad[i] = w * (p - target)
			hess[i] = w * p * (1 - p)
		}

		rows := sampleRows(n, params.Subsample, rng)
		builder.features = sampleFeatures(allFeatures, params.ColSample, rng)

		tr := builder.build(rows)
		trees = append(trees, tr)

		for i := range x {
			margins[i] += tr.predict(x[i])
		}

		if onRound != nil {
			onRound(round)
		}
	}

	return &Classifier{
		params:      params,
		trees:       trees,
		importances: normalizeGains(featureGain),
		numFeatures: numFeatures,
	}, nil
}

// sampleRows draws a subsample of row indices without replacement.
func sampleRows(n int, fraction float64, rng *rand.Rand) []int {
	if fraction >= 1 {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		return rows
	}

	keep := int(math.Round(fraction * float64(n)))
	if keep < 1 {
		keep = 1
	}
	perm := rng.Perm(n)[:keep]
	return perm
}

// sampleFeatures draws a per-tree feature subset.
func sampleFeatures(all []int, fraction float64, rng *rand.Rand) []int {
	if fraction >= 1 {
		return all
	}

	keep := int(math.Round(fraction * float64(len(all))))
	if keep < 1 {
		keep = 1
	}
	perm := rng.Perm(len(all))[:keep]
	feats := make([]int, keep)
	for i, p := range perm {
		feats[i] = all[p]
	}
	return feats
}

// normalizeGains turns raw per-feature gain totals into weights summing to
// 1. A model that never split returns all zeros.
func normalizeGains(gains []float64) []float64 {
	total := 0.0
	for _, g := range gains {
		total += g
	}

	out := make([]float64, len(gains))
	if total == 0 {
		return out
	}
	for i, g := range gains {
		out[i] = g / total
	}
	return out
}

// margin returns the raw additive score for one vector.
func (c *Classifier) margin(x []float64) float64 {
	m := 0.0
	for i := range c.trees {
		m += c.trees[i].predict(x)
	}
	return m
}

// PredictProba returns (p_no, p_yes), summing to 1.
func (c *Classifier) PredictProba(vector []float64) (float64, float64, error) {
	if len(vector) != c.numFeatures {
		return 0, 0, fmt.Errorf("vector has %d features, model expects %d", len(vector), c.numFeatures)
	}
	pYes := sigmoid(c.margin(vector))
	return 1 - pYes, pYes, nil
}

// Predict returns the class with the higher probability.
func (c *Classifier) Predict(vector []float64) (int, error) {
	_, pYes, err := c.PredictProba(vector)
	if err != nil {
		return 0, err
	}
	if pYes >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

// GlobalImportances returns the gain-based per-feature weights. The slice
// is a copy; the model's weights are constant for its lifetime.
func (c *Classifier) GlobalImportances() []float64 {
	return append([]float64(nil), c.importances...)
}

// NumFeatures is the vector length the model was fitted on.
func (c *Classifier) NumFeatures() int {
	return c.numFeatures
}

// Params returns the hyperparameters the model was fitted with.
func (c *Classifier) Params() Params {
	return c.params
}

// serialized is the on-disk form of a fitted classifier.
type serialized struct {
	Params      Params    `json:"params"`
	Trees       []tree    `json:"trees"`
	Importances []float64 `json:"importances"`
	NumFeatures int       `json:"num_features"`
}

// Marshal serializes the fitted model to a deterministic JSON form.
func (c *Classifier) Marshal() ([]byte, error) {
	return json.Marshal(serialized{
		Params:      c.params,
		Trees:       c.trees,
		Importances: c.importances,
		NumFeatures: c.numFeatures,
	})
}

// Load reconstructs a fitted classifier from its serialized form.
func Load(data []byte) (*Classifier, error) {
	var s serialized
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode scorer: %w", err)
	}
	if s.NumFeatures <= 0 {
		return nil, fmt.Errorf("decoded scorer has invalid feature count %d", s.NumFeatures)
	}
	if len(s.Importances) != s.NumFeatures {
		return nil, fmt.Errorf("decoded scorer has %d importances for %d features", len(s.Importances), s.NumFeatures)
	}

	return &Classifier{
		params:      s.Params,
		trees:       s.Trees,
		importances: s.Importances,
		numFeatures: s.NumFeatures,
	}, nil
}
