package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mindsage/mindsage/internal/model"
)

// Gender variants observed in the wild, folded into standard categories.
var (
	maleVariants = map[string]struct{}{
		"m": {}, "male": {}, "mail": {}, "maile": {}, "mal": {}, "make": {},
		"man": {}, "msle": {}, "cis male": {}, "cis man": {}, "male-ish": {},
		"malr": {}, "ostensibly male": {}, "something kinda male?": {},
	}
	femaleVariants = map[string]struct{}{
		"f": {}, "female": {}, "woman": {}, "femail": {}, "femake": {},
		"cis female": {}, "cis-female/femme": {}, "female (cis)": {},
		"female (trans)": {},
	}
	transVariants = []string{"trans-female", "trans woman", "trans male", "transgender"}

	nonBinaryVariants = map[string]struct{}{
		"non-binary": {}, "genderqueer": {}, "androgyne": {}, "agender": {},
	}
)

// yesNoFields are normalized to the literals "Yes"/"No" during cleaning.
var yesNoFields = []string{
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

var threeWayFields = []string{
	model.FieldBenefits,
	model.FieldCareOptions,
	model.FieldWellnessProgram,
}

var validWorkInterfere = map[string]struct{}{
	"Never": {}, "Rarely": {}, "Sometimes": {}, "Often": {},
}

var validLeave = map[string]struct{}{
	"Very easy": {}, "Somewhat easy": {}, "Somewhat difficult": {},
	"Very difficult": {}, "Don't know": {},
}

// Clean runs the full corpus cleaning pass: label extraction, age
// clipping, gender standardization, categorical normalization, and
// missing-value fills. Returns cleaned records (label column removed) and
// their 0/1 labels.
func Clean(raw []model.Record) ([]model.Record, []int, error) {
	if len(raw) == 0 {
		return nil, nil, fmt.Errorf("cannot clean an empty corpus")
	}

	// Drop rows with no usable label.
	var records []model.Record
	var labels []int
	for _, rec := range raw {
		label, ok := normalizeYesNo(rec[labelField])
		if !ok {
			continue
		}
		cleaned := rec.Clone()
		delete(cleaned, labelField)
		records = append(records, cleaned)
		if label == "Yes" {
			labels = append(labels, 1)
		} else {
			labels = append(labels, 0)
		}
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("no rows with a usable %s label", labelField)
	}

	cleanAges(records)

	for _, rec := range records {
		rec[model.FieldGender] = StandardizeGender(rec[model.FieldGender])

		for _, field := range yesNoFields {
			if v, ok := normalizeYesNo(rec[field]); ok {
				rec[field] = v
			} else {
				delete(rec, field)
			}
		}

		if v, ok := rec[model.FieldWorkInterfere]; ok {
			if _, valid := validWorkInterfere[v]; !valid {
				delete(rec, model.FieldWorkInterfere)
			}
		}

		for _, field := range threeWayFields {
			switch rec[field] {
			case "Yes", "No", "Don't know":
				// already normalized
			case "Not sure":
				rec[field] = "Don't know"
			default:
				delete(rec, field)
			}
		}

		if v, ok := rec[model.FieldLeave]; !ok {
			rec[model.FieldLeave] = "Don't know"
		} else if _, valid := validLeave[v]; !valid {
			rec[model.FieldLeave] = "Don't know"
		}
	}

	fillMissing(records)

	return records, labels, nil
}

// StandardizeGender folds a free-text gender answer into one of the
// standard categories.
func StandardizeGender(raw string) string {
	if raw == "" {
		return "Prefer not to say"
	}
	g := strings.ToLower(strings.TrimSpace(raw))

	if _, ok := maleVariants[g]; ok {
		return "Male"
	}
	if _, ok := femaleVariants[g]; ok {
		return "Female"
	}
	for _, tv := range transVariants {
		if strings.Contains(g, tv) {
			return "Transgender"
		}
	}
	if _, ok := nonBinaryVariants[g]; ok {
		return "Non-binary"
	}
	return "Other"
}

// normalizeYesNo folds case variants of yes/no answers into the literals
// the encoder expects. The boolean reports whether the value was usable.
func normalizeYesNo(v string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes":
		return "Yes", true
	case "no":
		return "No", true
	default:
		return "", false
	}
}

// cleanAges clips ages to [MinAge, MaxAge] and fills unusable values with
// the corpus median.
func cleanAges(records []model.Record) {
	var ages []float64
	for _, rec := range records {
		if age, ok := rec.Age(); ok {
			ages = append(ages, clipAge(age))
		}
	}

	median := float64(model.MinAge+model.MaxAge) / 2
	if len(ages) > 0 {
		sort.Float64s(ages)
		median = ages[len(ages)/2]
	}

	for _, rec := range records {
		if age, ok := rec.Age(); ok {
			rec.SetAge(clipAge(age))
		} else {
			rec.SetAge(median)
		}
	}
}

func clipAge(age float64) float64 {
	if age < model.MinAge {
		return model.MinAge
	}
	if age > model.MaxAge {
		return model.MaxAge
	}
	return age
}

// fillMissing fills absent categorical values: Country with "Unknown",
// everything else with the column mode.
func fillMissing(records []model.Record) {
	fields := map[string]struct{}{}
	for _, rec := range records {
		for k := range rec {
			fields[k] = struct{}{}
		}
	}

	for field := range fields {
		if field == model.FieldAge {
			continue
		}

		if field == model.FieldCountry {
			for _, rec := range records {
				if rec[field] == "" {
					rec[field] = "Unknown"
				}
			}
			continue
		}

		mode := fieldMode(records, field)
		if mode == "" {
			mode = "Unknown"
		}
		for _, rec := range records {
			if rec[field] == "" {
				rec[field] = mode
			}
		}
	}
}

// fieldMode returns the most frequent value of a field, ties broken
// lexicographically.
func fieldMode(records []model.Record, field string) string {
	counts := make(map[string]int)
	for _, rec := range records {
		if v := rec[field]; v != "" {
			counts[v]++
		}
	}

	var best string
	bestCount := 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && (best == "" || v < best)) {
			best, bestCount = v, c
		}
	}
	return best
}
