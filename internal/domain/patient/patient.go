package patient

import (
	"fmt"
	"strings"
	"time"
)

type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

// IsValid matches the eight canonical ABO/Rh strings exactly, case included.
func (b BloodType) IsValid() bool {
	switch b {
	case BloodTypeAPos, BloodTypeANeg, BloodTypeBPos, BloodTypeBNeg,
		BloodTypeABPos, BloodTypeABNeg, BloodTypeOPos, BloodTypeONeg:
		return true
	}
	return false
}

// TestResult is one lab result entry in a patient's history.
type TestResult struct {
	Name   string `json:"test_name" bson:"name"`
	Result int64  `json:"test_result" bson:"result"`
}

// Patient is the stored record. The medical record number is the document
// key and never changes after registration. Tests is append-only; entries
// stay in insertion order.
type Patient struct {
	MRN       int64     `json:"id" bson:"_id"`
	FirstName string    `json:"first_name" bson:"first_name"`
	LastName  string    `json:"last_name" bson:"last_name"`
	BloodType BloodType `json:"blood_type,omitempty" bson:"blood_type,omitempty"`

	// Age 0 means unknown; it is display-only and never validated on intake.
	Age int `json:"age" bson:"age"`

	Tests []TestResult `json:"tests" bson:"tests"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// New builds a registered patient with an empty, non-nil test history.
func New(firstName, lastName string, mrn int64, bloodType BloodType) *Patient {
	return &Patient{
		MRN:       mrn,
		FirstName: firstName,
		LastName:  lastName,
		BloodType: bloodType,
		Tests:     []TestResult{},
	}
}

// SplitName separates a full name into first and last name. Exactly two
// whitespace-separated tokens are accepted; anything else is a caller error.
func SplitName(full string) (first, last string, err error) {
	parts := strings.Fields(full)
	if len(parts) != 2 {
		return "", "", ErrMalformedName
	}
	return parts[0], parts[1], nil
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Equal compares identity fields only. Test history is deliberately
// excluded: two records for the same person compare equal regardless of
// how many results have accumulated.
func (p *Patient) Equal(other *Patient) bool {
	if other == nil {
		return false
	}
	return p.FirstName == other.FirstName &&
		p.LastName == other.LastName &&
		p.MRN == other.MRN &&
		p.Age == other.Age
}

// IsMinor reports whether the patient is under 18. known is false when the
// age was never recorded (Age 0).
func (p *Patient) IsMinor() (minor bool, known bool) {
	if p.Age == 0 {
		return false, false
	}
	return p.Age < 18, true
}

// AddTestResult appends to the in-memory history. Persistence of the
// appended entry is the repository's job.
func (p *Patient) AddTestResult(name string, result int64) {
	p.Tests = append(p.Tests, TestResult{Name: name, Result: result})
}

// Status renders the derived age classification for display.
func (p *Patient) Status() string {
	minor, known := p.IsMinor()
	switch {
	case !known:
		return "Unknown"
	case minor:
		return "Minor"
	default:
		return "Adult"
	}
}

func (p *Patient) String() string {
	return fmt.Sprintf("Patient, mrn=%d, %s %s", p.MRN, p.FirstName, p.LastName)
}
