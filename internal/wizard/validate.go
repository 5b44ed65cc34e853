package wizard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports the first failing field of a step input.
type ValidationError struct {
	Step    StepID
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CheckFunc is an extra rule run after struct validation succeeds.
type CheckFunc[T Data] func(data T, acc Accumulator) error

// StructSchema decodes JSON into T and validates its struct tags.
type StructSchema[T Data] struct {
	validate *validator.Validate
	checks   []CheckFunc[T]
}

// ForStruct creates a schema for the step payload type T.
func ForStruct[T Data](v *validator.Validate, checks ...CheckFunc[T]) *StructSchema[T] {
	return &StructSchema[T]{validate: v, checks: checks}
}

// Parse implements Schema.
func (s *StructSchema[T]) Parse(input json.RawMessage, acc Accumulator) (Data, error) {
	var data T
	if len(bytes.TrimSpace(input)) == 0 {
		input = json.RawMessage("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(input))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, decodeError(data.StepID(), err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &ValidationError{Step: data.StepID(), Message: "input is not valid JSON"}
	}

	if err := s.validate.Struct(data); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, fieldError(data.StepID(), fieldErrs[0])
		}
		return nil, fmt.Errorf("validate %s: %w", data.StepID(), err)
	}

	for _, check := range s.checks {
		if err := check(data, acc); err != nil {
			var vErr *ValidationError
			if errors.As(err, &vErr) && vErr.Step == "" {
				vErr.Step = data.StepID()
			}
			return nil, err
		}
	}

	return data, nil
}

func decodeError(step StepID, err error) *ValidationError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &ValidationError{
			Step:    step,
			Field:   typeErr.Field,
			Message: fmt.Sprintf("%s has the wrong type", typeErr.Field),
		}
	}
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		field = strings.Trim(field, `"`)
		return &ValidationError{Step: step, Field: field, Message: fmt.Sprintf("%s is not a known field", field)}
	}
	return &ValidationError{Step: step, Message: "input is not valid JSON"}
}

func fieldError(step StepID, fe validator.FieldError) *ValidationError {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	var msg string
	switch fe.Tag() {
	case "required", "required_if", "required_with", "required_without":
		msg = fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			msg = fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
		} else {
			msg = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
	case "max":
		if fe.Kind() == reflect.Slice {
			msg = fmt.Sprintf("%s allows at most %s entries", field, fe.Param())
		} else {
			msg = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
	case "gte":
		msg = fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		msg = fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		msg = fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "url":
		msg = fmt.Sprintf("%s must be a valid URL", field)
	case "eq":
		msg = fmt.Sprintf("%s must be %s", field, fe.Param())
	default:
		msg = fmt.Sprintf("%s is invalid", field)
	}

	return &ValidationError{Step: step, Field: field, Message: msg}
}
