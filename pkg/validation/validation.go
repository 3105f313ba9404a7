package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "authflow/pkg/domain-errors"
)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// Report wire names (json tags) so errors name the request parameter.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Var reports whether a single value satisfies a validator tag expression,
// e.g. "hexadecimal,len=16" or "oneof=online offline".
func Var(value string, tag string) bool {
	return defaultValidator.Var(value, tag) == nil
}

// Validate validates a struct using the default validator and returns a domain error
// naming the first offending field.
func Validate(req any) error {
	if err := defaultValidator.Struct(req); err != nil {
		return toDomainError(err)
	}
	return nil
}

func toDomainError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return dErrors.Wrap(err, dErrors.CodeInvalidParameter, "invalid request body")
	}

	fe := validationErrs[0]
	field := fe.Field()
	if field == "" {
		field = fe.StructField()
	}

	switch fe.ActualTag() {
	case "required":
		return dErrors.MissingParameter(field)
	default:
		return dErrors.InvalidParameter(field)
	}
}
