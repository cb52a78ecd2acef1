package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError names a single field that failed boundary validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a value does not fit the declared shape
// of an entity. Handlers turn it into a 400 response.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newFieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// rangeChecker is implemented by entities with cross-field rules the tags
// cannot express.
type rangeChecker interface {
	checkRanges() []FieldError
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// enum accepts any value exposing Valid() from one of the closed sets.
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(interface{ Valid() bool })
		return ok && e.Valid()
	})
	return v
}

// Validate checks v against its struct tags and cross-field rules.
func Validate(v interface{}) error {
	var fields []FieldError

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validating %T: %w", v, err)
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: describe(fe)})
		}
	}
	if rc, ok := v.(rangeChecker); ok {
		fields = append(fields, rc.checkRanges()...)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "enum":
		return fmt.Sprintf("%q is not an accepted value", fe.Value())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid identifier"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func checkDateOrder(startField string, start *Date, endField string, end *Date) []FieldError {
	if start == nil || end == nil {
		return nil
	}
	if end.Before(start.Time) {
		return []FieldError{{Field: endField, Message: "must not be before " + startField}}
	}
	return nil
}
