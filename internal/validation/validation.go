// Package validation checks decoded request bodies against an ordered field
// schema before any domain logic runs. All checks are pure; failures come
// back as typed errors the handler layer maps to responses.
package validation

import (
	"encoding/json"
	"fmt"
	"strconv"

	"healthdb/internal/domain/patient"
)

// Type names the primitive a field must carry. Matching is exact: an
// integer expectation is never satisfied by a floating-point literal and a
// string expectation only by a string.
type Type string

const (
	TypeString Type = "string"
	TypeInt    Type = "int"
)

// Field pairs an expected key with its expected type. Schemas are ordered;
// the first failing field is the one reported.
type Field struct {
	Key  string
	Type Type
}

type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("key %s is not found in input", e.Key)
}

type TypeMismatchError struct {
	Key  string
	Want Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("the value for key %s is not the expected type of %s", e.Key, e.Want)
}

type InvalidBloodTypeError struct {
	Value string
}

func (e *InvalidBloodTypeError) Error() string {
	return fmt.Sprintf("given blood type of %s is not valid", e.Value)
}

type InvalidMRNError struct {
	Raw string
}

func (e *InvalidMRNError) Error() string {
	return fmt.Sprintf("given patient id %q is not an integer", e.Raw)
}

// ValidateShape checks in against schema in order and stops at the first
// failing field. Keys present in the input but absent from the schema are
// ignored.
//
// Callers decoding JSON must enable json.Decoder.UseNumber so that integer
// and floating-point literals stay distinguishable; a bare float64 never
// satisfies TypeInt.
func ValidateShape(in map[string]any, schema []Field) error {
	for _, f := range schema {
		v, ok := in[f.Key]
		if !ok {
			return &MissingKeyError{Key: f.Key}
		}
		if !matches(v, f.Type) {
			return &TypeMismatchError{Key: f.Key, Want: f.Type}
		}
	}
	return nil
}

func matches(v any, t Type) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeInt:
		switch n := v.(type) {
		case int, int64:
			return true
		case json.Number:
			_, err := strconv.ParseInt(n.String(), 10, 64)
			return err == nil
		}
		return false
	}
	return false
}

// ValidateBloodType accepts exactly the eight canonical ABO/Rh strings,
// case-sensitively.
func ValidateBloodType(value string) error {
	if !patient.BloodType(value).IsValid() {
		return &InvalidBloodTypeError{Value: value}
	}
	return nil
}

// ParseMRN parses a raw path parameter as a base-10 medical record number.
func ParseMRN(raw string) (int64, error) {
	mrn, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &InvalidMRNError{Raw: raw}
	}
	return mrn, nil
}
