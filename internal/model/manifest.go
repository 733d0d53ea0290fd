package model

// ManifestVersion identifies the manifest schema written by this build.
// Bump only when the encoded representation changes incompatibly.
const ManifestVersion = 1

// ScalerParams holds the per-feature affine standardization parameters,
// aligned positionally to the manifest's FeatureNames.
type ScalerParams struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

// FeatureManifest is the frozen description of how a raw record becomes a
// fixed-length numeric vector. It is produced once by a fitting run and
// consumed unchanged by both fitting and serving; serving never mutates it.
type FeatureManifest struct {
	// OrdinalOrders maps an ordinal field to its ordered category labels.
	// A value's encoded rank is its index in the order; values outside the
	// order encode to the middle index (len/2).
	OrdinalOrders map[string][]string `json:"ordinal_orders"`

	// NominalFields maps a nominal field to the categories retained at fit
	// time, sorted lexicographically. The first entry is the drop-first
	// baseline and has no indicator column; values outside the slice
	// collapse to the implicit "Other" baseline (all-zero block).
	NominalFields map[string][]string `json:"nominal_fields"`

	// ThreeWayCategories maps a three-way field to its observed categories
	// in column order. Every category keeps an indicator column.
	ThreeWayCategories map[string][]string `json:"three_way_categories"`

	// Defaults carries the fit-time fallback value for each optional field,
	// applied before encoding when a served record omits the field.
	Defaults map[string]string `json:"defaults"`

	// FeatureNames is the authoritative ordered column list the scaler and
	// scorer expect. Changing it invalidates both and requires re-fitting.
	FeatureNames []string `json:"feature_names"`

	BinaryFields  []string `json:"binary_fields"`
	NumericFields []string `json:"numeric_fields"`

	Scaler ScalerParams `json:"scaler"`

	Version int `json:"version"`
}

// NumFeatures returns the length every encoded vector must have.
func (m *FeatureManifest) NumFeatures() int {
	return len(m.FeatureNames)
}

// FeatureIndex returns the column position of a feature name, or -1.
func (m *FeatureManifest) FeatureIndex(name string) int {
	for i, n := range m.FeatureNames {
		if n == name {
			return i
		}
	}
	return -1
}
