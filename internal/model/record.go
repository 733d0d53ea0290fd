// Package model defines the core domain models used throughout the application.
package model

import (
	"sort"
	"strconv"
)

// Survey field names shared between fitting and serving. The raw corpus uses
// these exact column headers, so they are the canonical spelling everywhere.
const (
	FieldAge                     = "Age"
	FieldGender                  = "Gender"
	FieldCountry                 = "Country"
	FieldSelfEmployed            = "self_employed"
	FieldFamilyHistory           = "family_history"
	FieldWorkInterfere           = "work_interfere"
	FieldNoEmployees             = "no_employees"
	FieldRemoteWork              = "remote_work"
	FieldTechCompany             = "tech_company"
	FieldBenefits                = "benefits"
	FieldCareOptions             = "care_options"
	FieldWellnessProgram         = "wellness_program"
	FieldSeekHelp                = "seek_help"
	FieldAnonymity               = "anonymity"
	FieldLeave                   = "leave"
	FieldMentalHealthConsequence = "mental_health_consequence"
	FieldPhysHealthConsequence   = "phys_health_consequence"
	FieldCoworkers               = "coworkers"
	FieldSupervisor              = "supervisor"
	FieldMentalHealthInterview   = "mental_health_interview"
	FieldPhysHealthInterview     = "phys_health_interview"
	FieldMentalVsPhysical        = "mental_vs_physical"
	FieldObsConsequence          = "obs_consequence"

	// Derived fields, computed from raw ones by the manifest's derivation
	// rules. They never appear in a caller-supplied record.
	FieldAgeGroup            = "age_group"
	FieldCompanySizeCategory = "company_size_category"
)

// Age bounds enforced on every served record and during corpus cleaning.
const (
	MinAge = 18
	MaxAge = 80
)

// RequiredFields is the core subset every served record must supply.
var RequiredFields = []string{
	FieldAge,
	FieldGender,
	FieldCountry,
	FieldFamilyHistory,
	FieldWorkInterfere,
	FieldBenefits,
	FieldCareOptions,
	FieldSelfEmployed,
	FieldObsConsequence,
	FieldLeave,
}

// OptionalFields is the extended subset; absent entries fall back to the
// manifest's captured defaults before encoding.
var OptionalFields = []string{
	FieldNoEmployees,
	FieldRemoteWork,
	FieldTechCompany,
	FieldWellnessProgram,
	FieldSeekHelp,
	FieldAnonymity,
	FieldMentalHealthConsequence,
	FieldPhysHealthConsequence,
	FieldCoworkers,
	FieldSupervisor,
	FieldMentalHealthInterview,
	FieldPhysHealthInterview,
	FieldMentalVsPhysical,
}

// Record is a sparse survey response: raw field name to raw value. Numeric
// fields (Age) are carried as their decimal string form so a record can hold
// any survey answer uniformly.
type Record map[string]string

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Age parses the record's Age field. The boolean reports whether the field
// was present and numeric.
func (r Record) Age() (float64, bool) {
	raw, ok := r[FieldAge]
	if !ok {
		return 0, false
	}
	age, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return age, true
}

// SetAge stores an age value in the record's string form.
func (r Record) SetAge(age float64) {
	r[FieldAge] = strconv.FormatFloat(age, 'f', -1, 64)
}

// FieldNames returns the record's field names in sorted order.
func (r Record) FieldNames() []string {
	names := make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
