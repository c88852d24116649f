package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultMessage maps a validator tag to a user-facing message
func DefaultMessage(field, tag, param string) string {
	field = strings.ToLower(field)

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// MessageFromBindError turns a gin binding error into a single
// user-facing message. Only the first field failure is reported; the
// stable VALIDATION_ERROR code is what clients branch on.
func MessageFromBindError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return DefaultMessage(fe.Field(), fe.Tag(), fe.Param())
	}
	return "invalid request body"
}
