package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their key-file name rather than the Go field name
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"yaml", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

// FieldError is the first rule a struct violated
type FieldError struct {
	Field string
	Rule  string
	Param string
	Value any
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason())
}

// Reason renders the violated rule without the field name
func (e *FieldError) Reason() string {
	switch e.Rule {
	case "required":
		return "field is required"
	case "len":
		if isCollection(e.Value) {
			return fmt.Sprintf("must have exactly %s entries", e.Param)
		}
		return fmt.Sprintf("must be exactly %s characters", e.Param)
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param)
	case "max":
		return fmt.Sprintf("must not exceed %s", e.Param)
	case "alpha":
		return "letters A-Z only"
	default:
		return fmt.Sprintf("validation failed (%s)", e.Rule)
	}
}

// Struct checks s against its validate tags and returns the first violation
// as a *FieldError.
func Struct(s any) error {
	if s == nil {
		return errors.New("validation: nil value")
	}
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// RangeInt checks min <= value <= max
func RangeInt(field string, value, min, max int) error {
	if value < min {
		return &FieldError{Field: field, Rule: "min", Param: fmt.Sprint(min), Value: value}
	}
	if value > max {
		return &FieldError{Field: field, Rule: "max", Param: fmt.Sprint(max), Value: value}
	}
	return nil
}

// formatValidationError converts validator errors to a *FieldError
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		// Drop the struct name so "Settings.positions[1]" reads "positions[1]"
		field := e.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		return &FieldError{
			Field: field,
			Rule:  e.Tag(),
			Param: e.Param(),
			Value: e.Value(),
		}
	}

	return err
}

func isCollection(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}
