package profile

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Profile is the fixed set of client attributes used as advisory context.
// Every field is a free-form string and defaults to empty; a blank field
// means "not provided"; there is no distinction between absent and empty.
type Profile struct {
	Age           string `json:"age"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"maritalStatus"`
	Dependents    string `json:"dependents"`

	Occupation       string `json:"occupation"`
	EmploymentStatus string `json:"employmentStatus"`
	AnnualIncome     string `json:"annualIncome"`
	EmployerName     string `json:"employerName"`

	Height             string `json:"height"`
	Weight             string `json:"weight"`
	SmokingStatus      string `json:"smokingStatus"`
	AlcoholConsumption string `json:"alcoholConsumption"`
	ExerciseFrequency  string `json:"exerciseFrequency"`

	ChronicConditions    string `json:"chronicConditions"`
	CurrentMedications   string `json:"currentMedications"`
	FamilyMedicalHistory string `json:"familyMedicalHistory"`

	DrivingRecord    string `json:"drivingRecord"`
	DangerousHobbies string `json:"dangerousHobbies"`
	TravelFrequency  string `json:"travelFrequency"`

	ExistingInsurance string `json:"existingInsurance"`
	MonthlyExpenses   string `json:"monthlyExpenses"`
	CreditScore       string `json:"creditScore"`
}

// Field is a single named profile attribute.
type Field struct {
	Name  string
	Value string
}

// Fields returns every attribute in declared order: personal, employment,
// health, medical, risk, financial. This order is part of the prompt
// contract with the model provider and must stay stable across calls,
// regardless of the order fields were filled in.
func (p Profile) Fields() []Field {
	return []Field{
		{"age", p.Age},
		{"gender", p.Gender},
		{"maritalStatus", p.MaritalStatus},
		{"dependents", p.Dependents},
		{"occupation", p.Occupation},
		{"employmentStatus", p.EmploymentStatus},
		{"annualIncome", p.AnnualIncome},
		{"employerName", p.EmployerName},
		{"height", p.Height},
		{"weight", p.Weight},
		{"smokingStatus", p.SmokingStatus},
		{"alcoholConsumption", p.AlcoholConsumption},
		{"exerciseFrequency", p.ExerciseFrequency},
		{"chronicConditions", p.ChronicConditions},
		{"currentMedications", p.CurrentMedications},
		{"familyMedicalHistory", p.FamilyMedicalHistory},
		{"drivingRecord", p.DrivingRecord},
		{"dangerousHobbies", p.DangerousHobbies},
		{"travelFrequency", p.TravelFrequency},
		{"existingInsurance", p.ExistingInsurance},
		{"monthlyExpenses", p.MonthlyExpenses},
		{"creditScore", p.CreditScore},
	}
}

// FieldNames returns the ordered field-name list, for schema endpoints and
// form UIs.
func FieldNames() []string {
	fields := Profile{}.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// IsEmpty reports whether every field trims to empty. Whitespace-only
// values count as not provided.
func (p Profile) IsEmpty() bool {
	for _, f := range p.Fields() {
		if strings.TrimSpace(f.Value) != "" {
			return false
		}
	}
	return true
}

// Parse decodes a JSON profile snapshot. Unknown keys are ignored. On any
// decode failure the zero Profile is returned along with the error so the
// caller can log it and continue without profile context; a malformed
// snapshot must never fail the request it arrived with.
func Parse(s string) (Profile, error) {
	var p Profile
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return Profile{}, fmt.Errorf("parsing profile snapshot: %w", err)
	}
	return p, nil
}
