package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindsage/mindsage/internal/model"
)

func TestStandardizeGender(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Male", want: "Male"},
		{in: "m", want: "Male"},
		{in: "MAKE", want: "Male"},
		{in: "cis male", want: "Male"},
		{in: "Female", want: "Female"},
		{in: "f", want: "Female"},
		{in: "Cis-female/femme", want: "Female"},
		{in: "Trans woman", want: "Transgender"},
		{in: "trans-female", want: "Transgender"},
		{in: "non-binary", want: "Non-binary"},
		{in: "Genderqueer", want: "Non-binary"},
		{in: "", want: "Prefer not to say"},
		{in: "Nah", want: "Other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StandardizeGender(tt.in), "input %q", tt.in)
	}
}

func rawRow(overrides map[string]string) model.Record {
	rec := model.Record{
		model.FieldAge:           "30",
		model.FieldGender:        "Male",
		model.FieldCountry:       "United States",
		model.FieldSelfEmployed:  "No",
		model.FieldFamilyHistory: "Yes",
		"treatment":              "Yes",
		model.FieldWorkInterfere: "Sometimes",
		model.FieldBenefits:      "Yes",
		model.FieldCareOptions:   "Not sure",
		model.FieldLeave:         "Somewhat easy",
	}
	for k, v := range overrides {
		if v == "" {
			delete(rec, k)
		} else {
			rec[k] = v
		}
	}
	return rec
}

func TestCleanLabels(t *testing.T) {
	raw := []model.Record{
		rawRow(map[string]string{"treatment": "Yes"}),
		rawRow(map[string]string{"treatment": "no"}),
		rawRow(map[string]string{"treatment": ""}),      // dropped
		rawRow(map[string]string{"treatment": "maybe"}), // dropped
	}

	records, labels, err := Clean(raw)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, []int{1, 0}, labels)

	// The label column never survives into the feature records.
	for _, rec := range records {
		_, has := rec["treatment"]
		assert.False(t, has)
	}
}

func TestCleanAgeClipping(t *testing.T) {
	raw := []model.Record{
		rawRow(map[string]string{model.FieldAge: "-5"}),
		rawRow(map[string]string{model.FieldAge: "329"}),
		rawRow(map[string]string{model.FieldAge: "30"}),
		rawRow(map[string]string{model.FieldAge: "banana"}),
	}

	records, _, err := Clean(raw)
	require.NoError(t, err)

	age0, _ := records[0].Age()
	age1, _ := records[1].Age()
	age3, _ := records[3].Age()

	assert.Equal(t, float64(model.MinAge), age0)
	assert.Equal(t, float64(model.MaxAge), age1)
	// Unparseable ages are filled with the corpus median of usable ones.
	assert.GreaterOrEqual(t, age3, float64(model.MinAge))
	assert.LessOrEqual(t, age3, float64(model.MaxAge))
}

func TestCleanCategoricalNormalization(t *testing.T) {
	raw := []model.Record{
		rawRow(map[string]string{
			model.FieldFamilyHistory: "YES",
			model.FieldCareOptions:   "Not sure",
			model.FieldWorkInterfere: "Constantly", // invalid
			model.FieldLeave:         "whenever",   // invalid
		}),
		rawRow(nil),
		rawRow(nil),
	}

	records, _, err := Clean(raw)
	require.NoError(t, err)

	rec := records[0]
	assert.Equal(t, "Yes", rec[model.FieldFamilyHistory])
	assert.Equal(t, "Don't know", rec[model.FieldCareOptions])
	assert.Equal(t, "Don't know", rec[model.FieldLeave])
	// Invalid work_interfere falls back to the corpus mode.
	assert.Equal(t, "Sometimes", rec[model.FieldWorkInterfere])
}

func TestCleanMissingCountry(t *testing.T) {
	raw := []model.Record{
		rawRow(map[string]string{model.FieldCountry: ""}),
		rawRow(nil),
	}

	records, _, err := Clean(raw)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", records[0][model.FieldCountry])
}

func TestCleanEmptyCorpus(t *testing.T) {
	_, _, err := Clean(nil)
	assert.Error(t, err)

	_, _, err = Clean([]model.Record{rawRow(map[string]string{"treatment": ""})})
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	csvData := `Timestamp,Age,Gender,Country,state,self_employed,family_history,treatment,work_interfere,benefits,care_options,leave,obs_consequence,comments
2014-08-27,37,Female,United States,IL,No,No,Yes,Often,Yes,Not sure,Somewhat easy,No,
2014-08-27,44,M,United States,IN,No,No,No,Rarely,Don't know,No,Don't know,No,some comment
2014-08-27,-1,Male,Canada,,No,Yes,Yes,Sometimes,No,Yes,Somewhat difficult,No,
`
	path := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0o600))

	records, labels, err := Load(path)
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []int{1, 0, 1}, labels)

	// Dropped columns never appear.
	for _, rec := range records {
		for _, field := range []string{"Timestamp", "state", "comments"} {
			_, has := rec[field]
			assert.False(t, has, "field %s should be dropped", field)
		}
	}

	assert.Equal(t, "Male", records[1][model.FieldGender])
	age, ok := records[2].Age()
	require.True(t, ok)
	assert.Equal(t, float64(model.MinAge), age)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
