package validation

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// dateLayouts are the accepted ISO 8601 forms for calendar dates
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// bcryptMaxBytes is the longest input bcrypt accepts, counted in bytes
const bcryptMaxBytes = 72

// sensitiveFields are never echoed back in validation errors
var sensitiveFields = map[string]bool{
	"password": true,
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator checks request payloads against their `validate` tags
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with the custom rules registered
func NewValidator() *Validator {
	v := validator.New()

	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on programmer error (empty tag or nil func).
	_ = v.RegisterValidation("nowhitespace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})
	_ = v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= bcryptMaxBytes
	})
	_ = v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

// Validate returns one error per failing field, or nil when req is valid
func (v *Validator) Validate(req interface{}) []ValidationError {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Field: "body", Message: err.Error()}}
	}

	errors := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		ve := ValidationError{
			Field:   fe.Field(),
			Message: message(fe),
		}
		if !sensitiveFields[fe.Field()] && !isZero(fe.Value()) {
			ve.Value = fe.Value()
		}
		errors = append(errors, ve)
	}
	return errors
}

// ParseDate parses an ISO 8601 calendar date or timestamp
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO 8601 date: %q", s)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	// or-chains such as "url|len=0" report the whole chain
	tag, _, _ := strings.Cut(fe.Tag(), "|")
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return "invalid email format"
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "alpha":
		return fmt.Sprintf("%s must contain only letters", field)
	case "alphanum":
		return fmt.Sprintf("%s must contain only letters and numbers", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be a positive integer", field)
	case "nowhitespace":
		return fmt.Sprintf("%s must not contain whitespace", field)
	case "bcryptmax":
		return fmt.Sprintf("%s must be at most %d bytes", field, bcryptMaxBytes)
	case "iso8601":
		return fmt.Sprintf("%s must be a valid ISO 8601 date", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func isZero(v interface{}) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}
