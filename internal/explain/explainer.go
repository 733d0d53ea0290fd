// Package explain ranks the features that most influenced one prediction.
//
// The per-instance explanation is an explicitly linear proxy: each feature's
// impact is its pre-scaling encoded value multiplied by the scorer's global
// importance for that feature. It is not a calibrated attribution method
// (nothing game-theoretic happens here), and it can be dominated by features
// whose encoded magnitude is large even when their marginal effect on the
// predicted probability is small. That trade is deliberate: explanations
// cost one multiply per feature and are exactly reproducible.
package explain

import (
	"fmt"
	"math"
	"sort"

	"github.com/mindsage/mindsage/internal/model"
)

// DefaultTopK is the number of contributing factors returned per
// prediction unless the caller asks for more.
const DefaultTopK = 5

// Explainer combines global feature importances with encoded instances.
// Immutable after construction; safe for concurrent use.
type Explainer struct {
	featureNames []string
	importances  []float64
	ranking      []model.FeatureImportance
	index        map[string]int
}

// New builds an explainer from a feature-name list and the positionally
// aligned global importance weights.
func New(featureNames []string, importances []float64) (*Explainer, error) {
	if len(featureNames) == 0 {
		return nil, fmt.Errorf("explainer needs at least one feature")
	}
	if len(featureNames) != len(importances) {
		return nil, fmt.Errorf("have %d feature names but %d importances", len(featureNames), len(importances))
	}

	e := &Explainer{
		featureNames: append([]string(nil), featureNames...),
		importances:  append([]float64(nil), importances...),
		index:        make(map[string]int, len(featureNames)),
	}
	for i, name := range e.featureNames {
		if _, dup := e.index[name]; dup {
			return nil, fmt.Errorf("duplicate feature name %q", name)
		}
		e.index[name] = i
	}
	e.ranking = buildRanking(e.featureNames, e.importances)
	return e, nil
}

// FromData reconstructs an explainer from its persisted artifact.
func FromData(data *model.ExplainerData) (*Explainer, error) {
	if data == nil {
		return nil, fmt.Errorf("explainer data is nil")
	}
	if len(data.Ranking) != len(data.FeatureNames) {
		return nil, fmt.Errorf("explainer data has %d ranked entries for %d features", len(data.Ranking), len(data.FeatureNames))
	}

	byName := make(map[string]float64, len(data.Ranking))
	for _, fi := range data.Ranking {
		byName[fi.Feature] = fi.Importance
	}

	importances := make([]float64, len(data.FeatureNames))
	for i, name := range data.FeatureNames {
		w, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("explainer data is missing importance for feature %q", name)
		}
		importances[i] = w
	}

	return New(data.FeatureNames, importances)
}

// buildRanking sorts features descending by weight, ties broken by the
// feature's original position so the order is stable across runs.
func buildRanking(names []string, importances []float64) []model.FeatureImportance {
	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return importances[order[a]] > importances[order[b]]
	})

	ranking := make([]model.FeatureImportance, len(order))
	for rank, idx := range order {
		ranking[rank] = model.FeatureImportance{
			Rank:       rank + 1,
			Feature:    names[idx],
			Importance: importances[idx],
		}
	}
	return ranking
}

// GlobalRanking returns the top-N globally important features. A
// non-positive n returns the full ranking.
func (e *Explainer) GlobalRanking(n int) []model.FeatureImportance {
	if n <= 0 || n > len(e.ranking) {
		n = len(e.ranking)
	}
	return append([]model.FeatureImportance(nil), e.ranking[:n]...)
}

// Data returns the persistable artifact form of this explainer.
func (e *Explainer) Data() *model.ExplainerData {
	return &model.ExplainerData{
		FeatureNames: append([]string(nil), e.featureNames...),
		Ranking:      append([]model.FeatureImportance(nil), e.ranking...),
	}
}

// Explain ranks the features contributing to one prediction. The vector
// must be the pre-scaling encoded values: the raw 0/1/ordinal-index
// magnitudes carry the interpretable sign, where standardized values would
// not. Contributions come back sorted by absolute impact, descending.
func (e *Explainer) Explain(encoded []float64, topK int) ([]model.Contribution, error) {
	if len(encoded) != len(e.featureNames) {
		return nil, fmt.Errorf("vector has %d features, explainer expects %d", len(encoded), len(e.featureNames))
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	contributions := make([]model.Contribution, 0, len(e.ranking))
	for _, fi := range e.ranking {
		value := encoded[e.index[fi.Feature]]
		impact := value * fi.Importance

		direction := model.DirectionNegative
		if impact > 0 {
			direction = model.DirectionPositive
		}

		contributions = append(contributions, model.Contribution{
			Feature:          fi.Feature,
			EncodedValue:     value,
			GlobalImportance: fi.Importance,
			ImpactScore:      impact,
			Direction:        direction,
		})
	}

	sort.SliceStable(contributions, func(a, b int) bool {
		return math.Abs(contributions[a].ImpactScore) > math.Abs(contributions[b].ImpactScore)
	})

	if topK > len(contributions) {
		topK = len(contributions)
	}
	return contributions[:topK], nil
}
