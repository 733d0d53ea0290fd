package feature

import (
	"fmt"
	"sort"

	"github.com/mindsage/mindsage/internal/model"
)

// topCategoryCount is how many categories each nominal field retains at fit
// time; everything rarer collapses into the implicit "Other" baseline.
const topCategoryCount = 10

// ordinalFieldOrder lists ordinal fields with their declared category
// orders. The slice order fixes their column positions.
var ordinalFieldOrder = []struct {
	field string
	order []string
}{
	{model.FieldWorkInterfere, []string{"Never", "Rarely", "Sometimes", "Often"}},
	{model.FieldLeave, []string{"Very easy", "Somewhat easy", "Don't know", "Somewhat difficult", "Very difficult"}},
	{model.FieldNoEmployees, []string{"1-5", "6-25", "26-100", "100-500", "500-1000", "More than 1000"}},
	{model.FieldAgeGroup, []string{"18-25", "26-35", "36-45", "46+"}},
}

// binaryFields are truthy iff the raw value equals the literal "Yes".
var binaryFields = []string{
	model.FieldSelfEmployed,
	model.FieldFamilyHistory,
	model.FieldRemoteWork,
	model.FieldTechCompany,
	model.FieldSeekHelp,
	model.FieldAnonymity,
	model.FieldMentalHealthConsequence,
	model.FieldPhysHealthConsequence,
	model.FieldObsConsequence,
}

// threeWayFields expand into one indicator column per observed category,
// with no baseline dropped.
var threeWayFields = []string{
	model.FieldBenefits,
	model.FieldCareOptions,
	model.FieldWellnessProgram,
}

// nominalFields expand into drop-first indicator columns over the retained
// top categories.
var nominalFields = []string{
	model.FieldGender,
	model.FieldCountry,
	model.FieldCoworkers,
	model.FieldSupervisor,
	model.FieldMentalHealthInterview,
	model.FieldPhysHealthInterview,
	model.FieldMentalVsPhysical,
	model.FieldCompanySizeCategory,
}

var numericFields = []string{model.FieldAge}

// ColumnName builds the indicator column name for one category of a field.
func ColumnName(field, category string) string {
	return field + "_" + category
}

// Derive builds a FeatureManifest from a cleaned, labeled corpus. Top-N
// category capture for nominal fields and default capture for optional
// fields happen here, against the full corpus, and are frozen into the
// manifest; serving reuses them verbatim.
func Derive(corpus []model.Record) (*model.FeatureManifest, error) {
	if len(corpus) == 0 {
		return nil, fmt.Errorf("cannot derive manifest from an empty corpus")
	}

	derived := make([]model.Record, len(corpus))
	for i, rec := range corpus {
		derived[i] = ApplyDerivedRules(rec)
	}

	m := &model.FeatureManifest{
		Version:            model.ManifestVersion,
		OrdinalOrders:      make(map[string][]string, len(ordinalFieldOrder)),
		NominalFields:      make(map[string][]string, len(nominalFields)),
		ThreeWayCategories: make(map[string][]string, len(threeWayFields)),
		Defaults:           make(map[string]string, len(model.OptionalFields)),
		BinaryFields:       append([]string(nil), binaryFields...),
		NumericFields:      append([]string(nil), numericFields...),
	}

	for _, of := range ordinalFieldOrder {
		m.OrdinalOrders[of.field] = append([]string(nil), of.order...)
	}

	for _, field := range threeWayFields {
		m.ThreeWayCategories[field] = observedCategories(derived, field)
	}

	for _, field := range nominalFields {
		m.NominalFields[field] = topCategories(derived, field, topCategoryCount)
	}

	for _, field := range model.OptionalFields {
		if mode, ok := modeValue(derived, field); ok {
			m.Defaults[field] = mode
		}
	}

	m.FeatureNames = buildFeatureNames(m)

	return m, nil
}

// buildFeatureNames assembles the authoritative column order: numeric
// fields, ordinal fields, binary fields, then the three-way and nominal
// indicator blocks. This order is fixed for the lifetime of a bundle.
func buildFeatureNames(m *model.FeatureManifest) []string {
	names := make([]string, 0, 64)

	names = append(names, m.NumericFields...)
	for _, of := range ordinalFieldOrder {
		names = append(names, of.field)
	}
	names = append(names, m.BinaryFields...)

	for _, field := range threeWayFields {
		for _, cat := range m.ThreeWayCategories[field] {
			names = append(names, ColumnName(field, cat))
		}
	}

	for _, field := range nominalFields {
		retained := m.NominalFields[field]
		// Drop-first: the lexicographically-first retained category is the
		// baseline and gets no column.
		for i := 1; i < len(retained); i++ {
			names = append(names, ColumnName(field, retained[i]))
		}
	}

	return names
}

// observedCategories returns every non-empty value seen for a field, sorted
// lexicographically so column order never depends on corpus row order.
func observedCategories(corpus []model.Record, field string) []string {
	seen := make(map[string]struct{})
	for _, rec := range corpus {
		if v, ok := rec[field]; ok && v != "" {
			seen[v] = struct{}{}
		}
	}

	cats := make([]string, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// topCategories returns the n most frequent values for a field, sorted
// lexicographically. Frequency ties break lexicographically so the retained
// set is deterministic.
func topCategories(corpus []model.Record, field string, n int) []string {
	counts := make(map[string]int)
	for _, rec := range corpus {
		if v, ok := rec[field]; ok && v != "" {
			counts[v]++
		}
	}

	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if counts[cats[i]] != counts[cats[j]] {
			return counts[cats[i]] > counts[cats[j]]
		}
		return cats[i] < cats[j]
	})

	if len(cats) > n {
		cats = cats[:n]
	}
	sort.Strings(cats)
	return cats
}

// modeValue returns the most frequent value for a field, ties broken
// lexicographically.
func modeValue(corpus []model.Record, field string) (string, bool) {
	counts := make(map[string]int)
	for _, rec := range corpus {
		if v, ok := rec[field]; ok && v != "" {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return "", false
	}

	var best string
	bestCount := -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best, true
}
