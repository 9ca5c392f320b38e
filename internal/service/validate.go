package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct turns the first validator failure into a ValidationError.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return invalid(err.Error())
	}

	fe := fieldErrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return invalid(fmt.Sprintf("%s is required", field))
	case "oneof":
		return invalid(fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
	case "gtefield":
		return invalid(fmt.Sprintf("%s must not be before %s", field, lowerFirst(fe.Param())))
	case "email":
		return invalid(fmt.Sprintf("%s must be a valid email address", field))
	case "min":
		return invalid(fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
	default:
		return invalid(fmt.Sprintf("%s is invalid", field))
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
