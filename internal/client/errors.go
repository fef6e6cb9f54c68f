// ABOUTME: Typed errors surfaced by the identity API client
// ABOUTME: AuthError, NetworkError and ValidationError plus credential validation

package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// AuthError means the identity service rejected the credentials or the token.
// It is recoverable and carries a user-facing message.
type AuthError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NetworkError means the request never produced a usable response: transport
// failure, timeout, cancellation or a 5xx. Retrying is left to the user.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError means the input was malformed and no request was sent
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, "; ")
}

// IsAuthError reports whether err is or wraps an *AuthError
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsNetworkError reports whether err is or wraps a *NetworkError
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsValidationError reports whether err is or wraps a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// ValidateCredentials checks credentials before any network call
func ValidateCredentials(creds Credentials) error {
	return validationError(validate.Struct(creds))
}

// ValidateCredentialField checks a single Credentials field by its Go name,
// Username or Password, with the same rules and messages as ValidateCredentials
func ValidateCredentialField(field, value string) error {
	var creds Credentials
	switch field {
	case "Username":
		creds.Username = value
	case "Password":
		creds.Password = value
	default:
		return fmt.Errorf("unknown credential field %q", field)
	}
	return validationError(validate.StructPartial(creds, field))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return &ValidationError{Fields: msgs}
}

// fieldError converts a single validator.FieldError into a readable message
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
