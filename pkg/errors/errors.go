package errors

import (
	"fmt"
)

// ConfigError represents an invalid or incomplete configuration. It is fatal
// and raised before any remote call is made.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

// NewConfigError constructs a ConfigError.
func NewConfigError(field, message string, err error) error {
	return &ConfigError{Field: field, Message: message, Err: err}
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AuthError indicates the supplied credential was rejected by the platform.
// No organization can proceed, so it aborts the entire run.
type AuthError struct {
	Err error
}

// NewAuthError constructs an AuthError.
func NewAuthError(err error) error {
	return &AuthError{Err: err}
}

func (e *AuthError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *AuthError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NotFoundError indicates a remote resource does not exist.
type NotFoundError struct {
	Resource string
	Err      error
}

// NewNotFoundError constructs a NotFoundError for the named resource.
func NewNotFoundError(resource string, err error) error {
	return &NotFoundError{Resource: resource, Err: err}
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ""
	}
	if e.Resource != "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return "resource not found"
}

// Unwrap exposes the underlying error.
func (e *NotFoundError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConflictError indicates a resource already exists where a new one was
// being created.
type ConflictError struct {
	Resource string
	Err      error
}

// NewConflictError constructs a ConflictError for the named resource.
func NewConflictError(resource string, err error) error {
	return &ConflictError{Resource: resource, Err: err}
}

func (e *ConflictError) Error() string {
	if e == nil {
		return ""
	}
	if e.Resource != "" {
		return fmt.Sprintf("%s already exists", e.Resource)
	}
	return "resource already exists"
}

// Unwrap exposes the underlying error.
func (e *ConflictError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TransientError represents a network or platform-side failure that is
// specific to one call and does not implicate the rest of the run.
type TransientError struct {
	Err error
}

// NewTransientError constructs a TransientError.
func NewTransientError(err error) error {
	return &TransientError{Err: err}
}

func (e *TransientError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("transient error: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *TransientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// APIError carries a platform error response that does not fit a more
// specific category. Status is zero when the SDK flattened the response
// before the status code could be observed.
type APIError struct {
	Status int
	Body   string
	Err    error
}

// NewAPIError constructs an APIError.
func NewAPIError(status int, body string, err error) error {
	return &APIError{Status: status, Body: body, Err: err}
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Status > 0 {
		return fmt.Sprintf("api error (%d): %s", e.Status, e.Body)
	}
	return fmt.Sprintf("api error: %s", e.Body)
}

// Unwrap exposes the underlying error.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
