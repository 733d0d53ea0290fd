package model

import "time"

// Confusion holds held-out confusion counts for the positive class.
type Confusion struct {
	TrueNegative  int `json:"true_negative"`
	FalsePositive int `json:"false_positive"`
	FalseNegative int `json:"false_negative"`
	TruePositive  int `json:"true_positive"`
}

// Metrics is the evaluation blob persisted alongside each fitting run.
type Metrics struct {
	TestROCAUC   float64   `json:"test_roc_auc"`
	TestF1       float64   `json:"test_f1"`
	CVROCAUCMean float64   `json:"cv_roc_auc_mean"`
	CVROCAUCStd  float64   `json:"cv_roc_auc_std"`
	Confusion    Confusion `json:"confusion_matrix"`
}

// DatasetInfo summarizes the fitting corpus for insight reporting.
type DatasetInfo struct {
	TotalSamples  int     `json:"total_samples"`
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
	PositiveRate  float64 `json:"positive_rate"`
	FeaturesUsed  int     `json:"features_used"`
}

// Bundle is the immutable artifact set emitted by one fitting run. All
// parts must originate from the same run; serving refuses mismatched
// combinations. ScorerData is the scorer's serialized form, decoded by the
// serving pipeline.
type Bundle struct {
	CreatedAt   time.Time        `json:"created_at"`
	RunID       string           `json:"run_id"`
	Manifest    *FeatureManifest `json:"manifest"`
	Explainer   *ExplainerData   `json:"explainer"`
	ScorerData  []byte           `json:"scorer"`
	Metrics     Metrics          `json:"metrics"`
	DatasetInfo DatasetInfo      `json:"dataset_info"`
}

// BundleInfo is a listing row for persisted bundles.
type BundleInfo struct {
	CreatedAt    time.Time
	RunID        string
	FeatureCount int
	TestROCAUC   float64
}
