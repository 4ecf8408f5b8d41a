package dto

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/repairdesk-service/pkg/util"
)

var validate = validator.New()

// Validate checks a request struct against its validation tags and converts
// failures into a field-keyed validation error.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := make(map[string]any, len(fieldErrors))
	for _, fe := range fieldErrors {
		details[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError("invalid payload", details)
}
