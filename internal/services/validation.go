package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the struct's validate tags and turns the first failing
// field into a readable ErrValidation.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return validationError(err.Error())
	}
	return validationError(describe(fieldErrs[0]))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// normalizeDescription trims and length-checks a todo description.
func normalizeDescription(raw string) (string, error) {
	desc := strings.TrimSpace(raw)
	rule := fmt.Sprintf("min=%d,max=%d", models.TodoDescriptionMin, models.TodoDescriptionMax)
	if err := validate.Var(desc, rule); err != nil {
		return "", validationError(fmt.Sprintf("description must be between %d and %d characters",
			models.TodoDescriptionMin, models.TodoDescriptionMax))
	}
	return desc, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
