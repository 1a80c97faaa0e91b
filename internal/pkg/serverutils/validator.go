package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"snochat-be/internal/pkg/apperr"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and folds failures into a
// single validation error listing every offending field.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return apperr.Validation("invalid request body")
		}

		fields := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Field(), fieldErr.Tag()))
		}
		return apperr.Validation("validation failed: " + strings.Join(fields, ", "))
	}
	return nil
}
