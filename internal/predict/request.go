package predict

import (
	"strconv"

	"github.com/mindsage/mindsage/internal/model"
)

// Request is the typed serving input. Required answers are plain fields;
// optional ones are pointers so an omitted answer is distinguishable from an
// empty one and can fall back to the fit-time default.
type Request struct {
	Age            int    `json:"Age"`
	Gender         string `json:"Gender"`
	Country        string `json:"Country"`
	FamilyHistory  string `json:"family_history"`
	WorkInterfere  string `json:"work_interfere"`
	Benefits       string `json:"benefits"`
	CareOptions    string `json:"care_options"`
	SelfEmployed   string `json:"self_employed"`
	ObsConsequence string `json:"obs_consequence"`
	Leave          string `json:"leave"`

	NoEmployees             *string `json:"no_employees,omitempty"`
	RemoteWork              *string `json:"remote_work,omitempty"`
	TechCompany             *string `json:"tech_company,omitempty"`
	WellnessProgram         *string `json:"wellness_program,omitempty"`
	SeekHelp                *string `json:"seek_help,omitempty"`
	Anonymity               *string `json:"anonymity,omitempty"`
	MentalHealthConsequence *string `json:"mental_health_consequence,omitempty"`
	PhysHealthConsequence   *string `json:"phys_health_consequence,omitempty"`
	Coworkers               *string `json:"coworkers,omitempty"`
	Supervisor              *string `json:"supervisor,omitempty"`
	MentalHealthInterview   *string `json:"mental_health_interview,omitempty"`
	PhysHealthInterview     *string `json:"phys_health_interview,omitempty"`
	MentalVsPhysical        *string `json:"mental_vs_physical,omitempty"`
}

// Record flattens the request into a raw survey record. Omitted optional
// answers stay absent so the manifest defaults can fill them.
func (r *Request) Record() model.Record {
	rec := model.Record{
		model.FieldAge:            strconv.Itoa(r.Age),
		model.FieldGender:         r.Gender,
		model.FieldCountry:        r.Country,
		model.FieldFamilyHistory:  r.FamilyHistory,
		model.FieldWorkInterfere:  r.WorkInterfere,
		model.FieldBenefits:       r.Benefits,
		model.FieldCareOptions:    r.CareOptions,
		model.FieldSelfEmployed:   r.SelfEmployed,
		model.FieldObsConsequence: r.ObsConsequence,
		model.FieldLeave:          r.Leave,
	}

	optional := map[string]*string{
		model.FieldNoEmployees:             r.NoEmployees,
		model.FieldRemoteWork:              r.RemoteWork,
		model.FieldTechCompany:             r.TechCompany,
		model.FieldWellnessProgram:         r.WellnessProgram,
		model.FieldSeekHelp:                r.SeekHelp,
		model.FieldAnonymity:               r.Anonymity,
		model.FieldMentalHealthConsequence: r.MentalHealthConsequence,
		model.FieldPhysHealthConsequence:   r.PhysHealthConsequence,
		model.FieldCoworkers:               r.Coworkers,
		model.FieldSupervisor:              r.Supervisor,
		model.FieldMentalHealthInterview:   r.MentalHealthInterview,
		model.FieldPhysHealthInterview:     r.PhysHealthInterview,
		model.FieldMentalVsPhysical:        r.MentalVsPhysical,
	}
	for field, value := range optional {
		if value != nil {
			rec[field] = *value
		}
	}

	return rec
}

// ValidateRecord checks the core serving contract: every required field must
// be present and non-empty, and Age must be a number within bounds. All
// failures return a SchemaError.
func ValidateRecord(rec model.Record) error {
	for _, field := range model.RequiredFields {
		if rec[field] == "" {
			return model.NewSchemaError(field, "required field is missing")
		}
	}

	age, ok := rec.Age()
	if !ok {
		return model.NewSchemaError(model.FieldAge, "must be a number")
	}
	if age < model.MinAge || age > model.MaxAge {
		return model.NewSchemaError(model.FieldAge,
			"must be between "+strconv.Itoa(model.MinAge)+" and "+strconv.Itoa(model.MaxAge))
	}

	return nil
}
