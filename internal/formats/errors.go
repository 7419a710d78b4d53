package formats

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingFields indicates a classified record lacks keys its kind requires.
	ErrMissingFields = errors.New("missing required fields")
	// ErrFieldType indicates a required key holds a value of the wrong type.
	ErrFieldType = errors.New("invalid field value")
	// ErrInvalidKind is returned when normalization is requested for an Invalid record.
	ErrInvalidKind = errors.New("cannot normalize invalid format")
)

// MissingFieldsError names every required key absent from a record.
type MissingFieldsError struct {
	Kind Kind
	Keys []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s format missing required fields: %s", e.Kind, strings.Join(e.Keys, ", "))
}

func (e *MissingFieldsError) Unwrap() error { return ErrMissingFields }

// FieldTypeError reports a required key whose value cannot be used.
type FieldTypeError struct {
	Key   string
	Value any
	Want  string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field %q: want %s, got %v (%T)", e.Key, e.Want, e.Value, e.Value)
}

func (e *FieldTypeError) Unwrap() error { return ErrFieldType }
