package domain

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every entity; validator caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs tag validation on v and converts the first failure
// into a ValidationError.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return NewValidationError("entity", "is invalid", err)
	}

	fe := fieldErrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return NewValidationError(field, "cannot be empty", ErrEmptyContent)
	case "oneof":
		if fe.Field() == "Difficulty" {
			return NewValidationError(field, "must be one of easy, medium, hard", ErrInvalidDifficulty)
		}
		return NewValidationError(field, "must be one of "+fe.Param(), nil)
	default:
		return NewValidationError(field, "failed "+fe.Tag()+" check", nil)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
