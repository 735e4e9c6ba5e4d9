package validation

import (
	"reflect"
	"strings"
	"time"

	"github.com/blaisecz/puppy-tracker/internal/domain"
	"github.com/blaisecz/puppy-tracker/pkg/problem"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterValidation("timezone", func(fl validator.FieldLevel) bool {
		_, err := time.LoadLocation(fl.Field().String())
		return err == nil
	})

	validate.RegisterValidation("event_type", func(fl validator.FieldLevel) bool {
		t := domain.EventType(fl.Field().String())
		for _, known := range domain.AllEventTypes {
			if t == known {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns field errors
func Validate(s interface{}) []problem.FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []problem.FieldError{{Field: "body", Message: err.Error()}}
	}

	var fieldErrors []problem.FieldError
	for _, err := range errs {
		fieldErrors = append(fieldErrors, problem.FieldError{
			Field:   fieldPath(err),
			Message: getValidationMessage(err),
		})
	}
	return fieldErrors
}

// fieldPath drops the root struct name from the namespace, e.g. "slots[0].label".
func fieldPath(err validator.FieldError) string {
	ns := err.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return err.Field()
}

func getValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + err.Param()
	case "max", "lte":
		return "must be at most " + err.Param()
	case "gt":
		return "must be greater than " + err.Param()
	case "lt":
		return "must be less than " + err.Param()
	case "oneof":
		return "must be one of: " + err.Param()
	case "gtfield":
		return "must be after " + err.Param()
	case "timezone":
		return "must be a valid IANA timezone"
	case "event_type":
		return "must be a known event type"
	default:
		return "is invalid"
	}
}
