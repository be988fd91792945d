package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// opValidator checks operation payloads against their struct tags. Its
// output never reaches the caller; the shell reports validation failures
// with the missing-required-field code and keeps the detail in the log.
type opValidator struct {
	v *validator.Validate
}

// NewValidator builds the validator the router installs on the Echo
// instance for Shell.Bind.
func NewValidator() *opValidator {
	return &opValidator{v: validator.New()}
}

func (ov *opValidator) Validate(i any) error {
	if err := ov.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// fieldError renders one violation for the log line.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "numeric":
		return field + " must be numeric"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
