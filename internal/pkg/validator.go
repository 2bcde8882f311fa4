package pkg

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New()

	// Register custom validators
	v.RegisterValidation("strongpassword", validateStrongPassword)
	v.RegisterValidation("objectid", validateObjectID)
	v.RegisterValidation("username", validateUsername)

	// Report field names from json tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Validate validates a struct
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var errors ValidationErrors
	for _, err := range err.(validator.ValidationErrors) {
		errors = append(errors, ValidationError{
			Field:   err.Field(),
			Message: v.getErrorMessage(err),
			Value:   err.Value(),
		})
	}

	return errors
}

// getErrorMessage returns a human-readable error message
func (v *Validator) getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", err.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	case "strongpassword":
		return fmt.Sprintf("%s must contain at least 8 characters with uppercase, lowercase, number, and special character", err.Field())
	case "objectid":
		return fmt.Sprintf("%s must be a valid ObjectID", err.Field())
	case "username":
		return fmt.Sprintf("%s must be 3-50 characters of lowercase letters, digits, dots or underscores", err.Field())
	default:
		return fmt.Sprintf("%s is invalid", err.Field())
	}
}

// Custom validation functions

// validateStrongPassword validates password strength
func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}

	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	hasSpecial := regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`).MatchString(password)

	return hasUpper && hasLower && hasNumber && hasSpecial
}

// validateObjectID validates MongoDB ObjectID
func validateObjectID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if len(id) != 24 {
		return false
	}

	match, _ := regexp.MatchString("^[a-fA-F0-9]{24}$", id)
	return match
}

// validateUsername validates the sharing-key username format
func validateUsername(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	usernameRegex := regexp.MustCompile(`^[a-z0-9._]{3,50}$`)
	return usernameRegex.MatchString(username)
}

// Global validator instance
var DefaultValidator = NewValidator()
