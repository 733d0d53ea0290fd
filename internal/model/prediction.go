package model

// Label is the predicted binary outcome.
type Label string

// Prediction labels.
const (
	LabelYes Label = "Yes"
	LabelNo  Label = "No"
)

// Confidence buckets the winning probability into a coarse band.
type Confidence string

// Confidence levels, from the winning class probability.
const (
	ConfidenceHigh   Confidence = "High"   // > 0.75
	ConfidenceMedium Confidence = "Medium" // > 0.60
	ConfidenceLow    Confidence = "Low"
)

// ConfidenceFor buckets the winning class probability.
func ConfidenceFor(maxProb float64) Confidence {
	switch {
	case maxProb > 0.75:
		return ConfidenceHigh
	case maxProb > 0.6:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Direction indicates the sign of a contribution's impact score.
type Direction string

// Contribution directions.
const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
)

// Contribution is one feature's heuristic influence on one prediction.
// ImpactScore is the pre-scaling encoded value multiplied by the feature's
// global importance; it is a linear proxy, not a calibrated per-instance
// attribution, and can be dominated by features whose encoded magnitude is
// large (an ordinal index near the top of its scale) even when their true
// marginal effect on the probability is small.
type Contribution struct {
	Feature          string    `json:"feature"`
	Direction        Direction `json:"direction"`
	EncodedValue     float64   `json:"encoded_value"`
	GlobalImportance float64   `json:"global_importance"`
	ImpactScore      float64   `json:"impact_score"`
}

// PredictionResult is the full response for one served record.
type PredictionResult struct {
	Label          Label          `json:"prediction"`
	Confidence     Confidence     `json:"confidence"`
	ProbabilityNo  float64        `json:"probability_no"`
	ProbabilityYes float64        `json:"probability_yes"`
	TopFactors     []Contribution `json:"top_factors"`
}

// FeatureImportance is one entry of the global importance ranking.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
	Rank       int     `json:"rank"`
}

// ExplainerData is the precomputed explanation artifact: the global
// importance ranking plus the feature-name list it was computed against.
type ExplainerData struct {
	FeatureNames []string            `json:"feature_names"`
	Ranking      []FeatureImportance `json:"feature_importance"`
}
