package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their form/json name rather than the Go field name
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Struct validates v against its validate tags and reports the first
// failing field as a ValidationError.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}
	return translate(fieldErrors[0])
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if err := validate.Var(email, "email"); err != nil {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

func translate(fe validator.FieldError) ValidationError {
	field := fe.Field()
	label := strings.ReplaceAll(field, "_", " ")

	var message string
	switch fe.Tag() {
	case "required", "required_if":
		message = label + " is required"
	case "email":
		message = "invalid email format"
	case "oneof":
		message = fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		message = fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	default:
		message = label + " is invalid"
	}
	return ValidationError{Field: field, Message: message}
}
