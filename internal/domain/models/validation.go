package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct runs the struct tags of s and converts failures into a
// ValidationError keyed by json field names.
func ValidateStruct(s any) error {
	verr := NewValidationError()
	collectStructErrors(verr, s)
	return verr.OrNil()
}

func collectStructErrors(verr *ValidationError, s any) {
	err := validate.Struct(s)
	if err == nil {
		return
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		verr.Add("_", err.Error())
		return
	}

	for _, fe := range fieldErrors {
		verr.Add(fe.Field(), describeTag(fe))
	}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "number":
		return "must contain digits only"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}

func mergeValidationError(into *ValidationError, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		for field, message := range verr.Fields {
			into.Add(field, message)
		}
		return
	}
	into.Add("_", err.Error())
}
