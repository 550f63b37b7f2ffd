package auth

import (
	"errors"
	"fmt"
)

// Sentinel errors for authentication policy operations.
var (
	// ErrConfiguration indicates an operation the policy configuration forbids.
	ErrConfiguration = errors.New("authentication configuration error")

	// ErrUnexpectedScheme indicates an unknown scheme name or value.
	ErrUnexpectedScheme = errors.New("unexpected auth")

	// ErrSchemeNotAllowed indicates a known scheme outside the allowed set.
	ErrSchemeNotAllowed = errors.New("auth is not allowed")

	// ErrNoTokenCarrier indicates a stored token with no usable carrier.
	ErrNoTokenCarrier = errors.New("no token carrier")

	// ErrNoPasswordCarrier indicates a stored password with no usable carrier.
	ErrNoPasswordCarrier = errors.New("no password carrier")

	// ErrNoAuthentication indicates no authentication path for the request.
	ErrNoAuthentication = errors.New("no authentication")
)

// AuthError is returned by Policy.Apply and ParseScheme.
type AuthError struct {
	// Err is one of the scheme sentinel errors.
	Err error

	// Login is the login of the failed request, empty for scheme errors.
	Login string

	// Detail describes the failing combination.
	Detail string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

// Unwrap returns the underlying sentinel error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

func newAuthError(err error, login, detail string) *AuthError {
	return &AuthError{Err: err, Login: login, Detail: detail}
}

// ConfigurationError represents an operation rejected by the policy
// configuration.
type ConfigurationError struct {
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		if e.Cause != nil {
			return fmt.Sprintf("auth config error at %s: %s: %v", e.Field, e.Message, e.Cause)
		}
		return fmt.Sprintf("auth config error at %s: %s", e.Field, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("auth config error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("auth config error: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ConfigurationError) Is(target error) bool {
	if target == ErrConfiguration {
		return true
	}
	_, ok := target.(*ConfigurationError)
	return ok
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(field, message string) *ConfigurationError {
	return &ConfigurationError{
		Field:   field,
		Message: message,
	}
}

// NewConfigurationErrorWithCause creates a new ConfigurationError with a cause.
func NewConfigurationErrorWithCause(field, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// IsAuthError reports whether err is an *AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// errorKind maps an Apply error to its metrics label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrUnexpectedScheme):
		return "unexpected_scheme"
	case errors.Is(err, ErrSchemeNotAllowed):
		return "scheme_not_allowed"
	case errors.Is(err, ErrNoTokenCarrier):
		return "no_token_carrier"
	case errors.Is(err, ErrNoPasswordCarrier):
		return "no_password_carrier"
	case errors.Is(err, ErrNoAuthentication):
		return "no_authentication"
	default:
		return "other"
	}
}
