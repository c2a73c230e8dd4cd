package profile

import (
	"strings"
	"testing"
)

func TestParse_ValidSnapshot(t *testing.T) {
	p, err := Parse(`{"age":"30","occupation":"Teacher"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Age != "30" {
		t.Errorf("Age = %q, want %q", p.Age, "30")
	}
	if p.Occupation != "Teacher" {
		t.Errorf("Occupation = %q, want %q", p.Occupation, "Teacher")
	}
	if p.CreditScore != "" {
		t.Errorf("CreditScore = %q, want empty", p.CreditScore)
	}
}

func TestParse_UnknownKeysIgnored(t *testing.T) {
	p, err := Parse(`{"age":"42","shoeSize":"11"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Age != "42" {
		t.Errorf("Age = %q, want %q", p.Age, "42")
	}
}

func TestParse_MalformedReturnsZeroProfile(t *testing.T) {
	p, err := Parse(`{not valid json`)
	if err == nil {
		t.Fatal("expected error for malformed snapshot")
	}
	if !p.IsEmpty() {
		t.Errorf("expected zero profile on parse failure, got %+v", p)
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		p    Profile
		want bool
	}{
		{"zero value", Profile{}, true},
		{"whitespace only", Profile{Age: "  ", Gender: "\t"}, true},
		{"one field set", Profile{SmokingStatus: "never"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFields_DeclaredOrder(t *testing.T) {
	names := FieldNames()
	if len(names) != 22 {
		t.Fatalf("expected 22 fields, got %d", len(names))
	}
	if names[0] != "age" {
		t.Errorf("first field = %q, want %q", names[0], "age")
	}
	if names[len(names)-1] != "creditScore" {
		t.Errorf("last field = %q, want %q", names[len(names)-1], "creditScore")
	}

	// Domain grouping: employment block must come after personal and
	// before health.
	idx := func(name string) int {
		for i, n := range names {
			if n == name {
				return i
			}
		}
		t.Fatalf("field %q missing", name)
		return -1
	}
	if !(idx("dependents") < idx("occupation") && idx("employerName") < idx("height")) {
		t.Errorf("employment block out of order: %v", names)
	}
	if !(idx("familyMedicalHistory") < idx("drivingRecord") && idx("travelFrequency") < idx("existingInsurance")) {
		t.Errorf("risk/financial blocks out of order: %v", names)
	}
}

func TestFields_ValuesMatchStruct(t *testing.T) {
	p := Profile{Age: "30", CreditScore: "720"}
	fields := p.Fields()
	byName := make(map[string]string, len(fields))
	for _, f := range fields {
		byName[f.Name] = f.Value
	}
	if byName["age"] != "30" || byName["creditScore"] != "720" {
		t.Errorf("field values do not reflect struct: %v", byName)
	}
	for name, v := range byName {
		if name != "age" && name != "creditScore" && strings.TrimSpace(v) != "" {
			t.Errorf("unexpected non-empty field %s=%q", name, v)
		}
	}
}
