package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		name string
		want Confidence
		prob float64
	}{
		{"well above high threshold", ConfidenceHigh, 0.9},
		{"exactly at high threshold", ConfidenceMedium, 0.75},
		{"just above medium threshold", ConfidenceMedium, 0.61},
		{"exactly at medium threshold", ConfidenceLow, 0.6},
		{"coin flip", ConfidenceLow, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfidenceFor(tt.prob))
		})
	}
}

func TestErrorTaxonomy(t *testing.T) {
	schemaErr := NewSchemaError(FieldAge, "must be a number")
	assert.ErrorIs(t, schemaErr, ErrSchema)
	assert.NotErrorIs(t, schemaErr, ErrArtifactLoad)

	var se *SchemaError
	require.ErrorAs(t, schemaErr, &se)
	assert.Equal(t, FieldAge, se.Field)

	loadErr := NewArtifactLoadError("run-1", "scorer data is empty")
	assert.ErrorIs(t, loadErr, ErrArtifactLoad)
	assert.Contains(t, loadErr.Error(), "run-1")
}

func TestRecordAge(t *testing.T) {
	rec := Record{}
	_, ok := rec.Age()
	assert.False(t, ok)

	rec.SetAge(34)
	age, ok := rec.Age()
	require.True(t, ok)
	assert.Equal(t, 34.0, age)

	rec[FieldAge] = "not a number"
	_, ok = rec.Age()
	assert.False(t, ok)
}

func TestRecordCloneIsIndependent(t *testing.T) {
	rec := Record{FieldGender: "Female"}
	clone := rec.Clone()
	clone[FieldGender] = "Male"
	assert.Equal(t, "Female", rec[FieldGender])
}

func TestFeatureIndex(t *testing.T) {
	m := &FeatureManifest{FeatureNames: []string{"Age", "family_history"}}
	assert.Equal(t, 1, m.FeatureIndex("family_history"))
	assert.Equal(t, -1, m.FeatureIndex("missing"))
	assert.Equal(t, 2, m.NumFeatures())
}
