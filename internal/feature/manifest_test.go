package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindsage/mindsage/internal/model"
)

func TestDeriveEmptyCorpus(t *testing.T) {
	_, err := Derive(nil)
	assert.Error(t, err)
}

func TestDeriveManifestShape(t *testing.T) {
	m := deriveTestManifest(t)

	assert.Equal(t, model.ManifestVersion, m.Version)
	assert.Len(t, m.OrdinalOrders, 4)
	assert.Len(t, m.BinaryFields, 9)
	assert.Len(t, m.ThreeWayCategories, 3)
	assert.Len(t, m.NominalFields, 8)

	// Feature names must be unique.
	seen := make(map[string]struct{}, len(m.FeatureNames))
	for _, name := range m.FeatureNames {
		_, dup := seen[name]
		assert.False(t, dup, "duplicate feature name %q", name)
		seen[name] = struct{}{}
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	a, err := Derive(testCorpus())
	require.NoError(t, err)
	b, err := Derive(testCorpus())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestDeriveTopCategoryCapture(t *testing.T) {
	// Twelve distinct countries; only the ten most frequent survive.
	corpus := make([]model.Record, 0, 26)
	countries := []string{
		"Albania", "Bolivia", "Chile", "Denmark", "Estonia", "Finland",
		"Ghana", "Hungary", "Iceland", "Jordan", "Kenya", "Latvia",
	}
	for i, c := range countries {
		// Increasing duplication makes later countries more frequent.
		for j := 0; j <= i/6; j++ {
			rec := testCorpus()[0].Clone()
			rec[model.FieldCountry] = c
			corpus = append(corpus, rec)
		}
	}

	m, err := Derive(corpus)
	require.NoError(t, err)

	retained := m.NominalFields[model.FieldCountry]
	assert.Len(t, retained, 10)
	// Kenya and Latvia appear twice and must survive capture.
	assert.Contains(t, retained, "Kenya")
	assert.Contains(t, retained, "Latvia")
}

func TestDeriveCapturesOptionalDefaults(t *testing.T) {
	m := deriveTestManifest(t)

	// The corpus answers tech_company "Yes" everywhere, so the captured
	// default is its mode.
	assert.Equal(t, "Yes", m.Defaults[model.FieldTechCompany])
	assert.NotEmpty(t, m.Defaults[model.FieldNoEmployees])
}

func TestAgeGroup(t *testing.T) {
	tests := []struct {
		want string
		age  float64
	}{
		{want: "18-25", age: 18},
		{want: "18-25", age: 25},
		{want: "26-35", age: 26},
		{want: "26-35", age: 30},
		{want: "36-45", age: 45},
		{want: "46+", age: 46},
		{want: "46+", age: 80},
		{want: "46+", age: 120},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AgeGroup(tt.age), "age %v", tt.age)
	}
}

func TestCompanySizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "1-5", want: "Small", ok: true},
		{in: "6-25", want: "Small", ok: true},
		{in: "26-100", want: "Medium", ok: true},
		{in: "100-500", want: "Large", ok: true},
		{in: "500-1000", want: "Large", ok: true},
		{in: "More than 1000", want: "Very Large", ok: true},
		{in: "a few", want: "", ok: false},
		{in: "", want: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := CompanySizeCategory(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestApplyDerivedRulesDoesNotMutateInput(t *testing.T) {
	rec := model.Record{
		model.FieldAge:         "30",
		model.FieldNoEmployees: "1-5",
	}
	out := ApplyDerivedRules(rec)

	assert.Equal(t, "26-35", out[model.FieldAgeGroup])
	assert.Equal(t, "Small", out[model.FieldCompanySizeCategory])

	_, hasGroup := rec[model.FieldAgeGroup]
	assert.False(t, hasGroup, "input record must stay untouched")
}
