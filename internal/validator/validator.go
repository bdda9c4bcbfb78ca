// Package validator provides a custom Validator type for accumulating
// field-level validation errors and returning them as a map.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// structs checks `validate` struct tags. It is safe for concurrent use and
// caches struct metadata, so one instance is shared.
var structs = newStructValidator()

func newStructValidator() *playground.Validate {
	v := playground.New()

	// Report fields by their JSON name so error keys match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validator holds a map of field names to their validation error messages.
// A Validator with an empty Errors map is considered valid.
type Validator struct {
	Errors map[string]string
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if the Errors map contains no entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records key as failing with the given message.
// If key already has an error it is not overwritten, so the first
// failure for a field is always the one that is reported.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

// Check adds an error for key with message only when ok is false.
// Use this as a single-line guard:
//
//	v.Check(len(title) > 0, "title", "must be provided")
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Struct runs the `validate` tag rules of s and records one error per
// failing field. It returns a non-nil error only when s cannot be validated
// at all (for example, it is not a struct).
func (v *Validator) Struct(s any) error {
	err := structs.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	for _, fe := range fieldErrs {
		v.AddError(fe.Field(), describe(fe))
	}
	return nil
}

// describe turns a failed tag into a client-facing message.
func describe(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be provided"
	case "max":
		return fmt.Sprintf("must not be more than %s characters long", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return "is invalid"
	}
}

// In returns true if value is present in the list slice.
func In(value string, list ...string) bool {
	for _, item := range list {
		if value == item {
			return true
		}
	}
	return false
}
