// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator.
type Validator struct {
	validator *validator.Validate
}

// New creates a validator that reports JSON field names.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validator: validate}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidationError(verrs)
	}
	return err
}

// ValidationError carries one message per invalid field.
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, fmt.Sprintf("%s: %s", field, e.Errors[field]))
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, ", "))
}

// NewValidationError creates a ValidationError from validator.ValidationErrors
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	out := make(map[string]string, len(errs))

	for _, err := range errs {
		field := err.Field()

		switch err.Tag() {
		case "required":
			out[field] = fmt.Sprintf("The %s field is required.", field)
		case "email":
			out[field] = fmt.Sprintf("The %s must be a valid email address.", field)
		case "min":
			out[field] = fmt.Sprintf("The %s must be at least %s characters.", field, err.Param())
		case "max":
			out[field] = fmt.Sprintf("The %s may not be greater than %s characters.", field, err.Param())
		default:
			out[field] = fmt.Sprintf("The %s is invalid.", field)
		}
	}

	return &ValidationError{Errors: out}
}
