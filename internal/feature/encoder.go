package feature

import (
	"github.com/mindsage/mindsage/internal/model"
)

// FallbackKind classifies a category-drift substitution the encoder made.
type FallbackKind string

// Fallback kinds.
const (
	// FallbackOrdinalMidpoint means an ordinal value outside its declared
	// order was replaced by the order's middle index.
	FallbackOrdinalMidpoint FallbackKind = "ordinal_midpoint"
	// FallbackNominalBaseline means a nominal value outside the retained
	// set collapsed to the all-zero implicit "Other" baseline.
	FallbackNominalBaseline FallbackKind = "nominal_baseline"
)

// Fallback records one substitution for one field of one record. Fallbacks
// are non-fatal by design; callers may log them but the encoder never turns
// category drift into an error.
type Fallback struct {
	Field string
	Value string
	Kind  FallbackKind
}

// Encode turns a raw record into a fixed-length vector aligned to the
// manifest's feature names. It is pure: no side effects, no randomness, and
// the output length equals manifest.NumFeatures() for every record
// regardless of which fields were supplied. Columns the record does not
// produce are filled with 0.
func Encode(rec model.Record, m *model.FeatureManifest) ([]float64, []Fallback) {
	rec = ApplyDerivedRules(rec)

	produced := make(map[string]float64, m.NumFeatures())
	var fallbacks []Fallback

	for _, field := range m.NumericFields {
		if field == model.FieldAge {
			if age, ok := rec.Age(); ok {
				produced[field] = age
			}
			continue
		}
		// No other numeric fields exist today; unknown ones stay 0.
	}

	for field, order := range m.OrdinalOrders {
		value, present := rec[field]
		idx := ordinalIndex(order, value)
		if idx < 0 {
			idx = len(order) / 2
			if present && value != "" {
				fallbacks = append(fallbacks, Fallback{Field: field, Value: value, Kind: FallbackOrdinalMidpoint})
			}
		}
		produced[field] = float64(idx)
	}

	for _, field := range m.BinaryFields {
		if rec[field] == "Yes" {
			produced[field] = 1
		} else {
			produced[field] = 0
		}
	}

	for field, cats := range m.ThreeWayCategories {
		value := rec[field]
		for _, cat := range cats {
			if value == cat {
				produced[ColumnName(field, cat)] = 1
			} else {
				produced[ColumnName(field, cat)] = 0
			}
		}
	}

	for field, retained := range m.NominalFields {
		value, present := rec[field]
		matched := false
		for i, cat := range retained {
			col := ColumnName(field, cat)
			if value == cat {
				matched = true
				if i > 0 {
					produced[col] = 1
				}
				// i == 0 is the drop-first baseline: all columns stay 0.
			}
		}
		if !matched && present && value != "" {
			fallbacks = append(fallbacks, Fallback{Field: field, Value: value, Kind: FallbackNominalBaseline})
		}
	}

	// Re-index against the authoritative list rather than against whatever
	// columns happened to be produced. This is what guarantees identical
	// shape for a 10-field record and a complete one.
	vec := make([]float64, m.NumFeatures())
	for i, name := range m.FeatureNames {
		vec[i] = produced[name]
	}

	return vec, fallbacks
}

// ordinalIndex returns the value's rank in the declared order, or -1.
func ordinalIndex(order []string, value string) int {
	for i, label := range order {
		if label == value {
			return i
		}
	}
	return -1
}
