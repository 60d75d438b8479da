package util

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{10,}$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
		_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return ValidPhone(fl.Field().String())
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// ValidPhone reports whether phone has at least ten digits/spaces/hyphens/parens with an optional leading +.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidEmail applies the same rule as the `email` struct tag.
func ValidEmail(email string) bool {
	return validatorInstance().Var(email, "required,email") == nil
}

// ValidateStruct runs struct tag validation and converts failures into a VALIDATION_FAILED DomainError.
func ValidateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return NewValidationError("invalid input", map[string]any{"reason": err.Error()})
	}
	fields := make(map[string]any, len(validationErrors))
	for _, fieldError := range validationErrors {
		switch fieldError.Tag() {
		case "required", "notblank":
			fields[fieldError.Field()] = "is required"
		default:
			fields[fieldError.Field()] = "is invalid"
		}
	}
	return NewValidationError("validation failed", fields)
}
