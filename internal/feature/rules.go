// Package feature implements the feature-encoding pipeline shared between
// offline fitting and online inference: manifest derivation, derived-field
// rules, record encoding, and scaling. Everything here is deterministic; the
// same record and manifest always produce the same vector.
package feature

import (
	"github.com/mindsage/mindsage/internal/model"
)

// ageGroupBins are the right-closed bucket edges for the derived age_group
// field. An age in (25, 35] is "26-35", and so on.
var ageGroupBins = []struct {
	label string
	upper float64
}{
	{label: "18-25", upper: 25},
	{label: "26-35", upper: 35},
	{label: "36-45", upper: 45},
	{label: "46+", upper: 100},
}

// companySizeCategories maps the no_employees answer to a coarser size
// category used as a nominal feature.
var companySizeCategories = map[string]string{
	"1-5":            "Small",
	"6-25":           "Small",
	"26-100":         "Medium",
	"100-500":        "Large",
	"500-1000":       "Large",
	"More than 1000": "Very Large",
}

// AgeGroup buckets an age into its named range. Ages outside the bins clamp
// to the nearest bucket.
func AgeGroup(age float64) string {
	for _, bin := range ageGroupBins {
		if age <= bin.upper {
			return bin.label
		}
	}
	return ageGroupBins[len(ageGroupBins)-1].label
}

// CompanySizeCategory maps a no_employees answer to its size category. The
// boolean reports whether the answer was recognized.
func CompanySizeCategory(noEmployees string) (string, bool) {
	cat, ok := companySizeCategories[noEmployees]
	return cat, ok
}

// ApplyDerivedRules returns a copy of the record with every derived field
// computed from the raw ones. Both the fitting pipeline (over the whole
// corpus) and the serving pipeline (over one record) must call this exact
// function; two separately maintained copies would be a silent source of
// train/serve skew.
func ApplyDerivedRules(rec model.Record) model.Record {
	out := rec.Clone()

	if age, ok := rec.Age(); ok {
		out[model.FieldAgeGroup] = AgeGroup(age)
	}
	if cat, ok := CompanySizeCategory(rec[model.FieldNoEmployees]); ok {
		out[model.FieldCompanySizeCategory] = cat
	}

	return out
}
