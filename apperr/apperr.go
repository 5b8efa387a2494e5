package apperr

import (
	"fmt"
	"strings"
)

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed or missing input. Rendered as a 400
// with the full field list.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Validation builds a ValidationError from field/message pairs.
func Validation(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// AuthenticationError reports an absent, invalid or expired credential
// where one is required. Rendered as a 401.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// Authentication creates an AuthenticationError with a formatted message.
func Authentication(format string, args ...any) *AuthenticationError {
	return &AuthenticationError{Message: fmt.Sprintf(format, args...)}
}

// AuthenticationWrap attaches an underlying cause for diagnostics.
func AuthenticationWrap(message string, err error) *AuthenticationError {
	return &AuthenticationError{Message: message, Err: err}
}

// NotFoundError reports a referenced document that does not exist.
// Rendered as a 404.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func NotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// UpstreamError reports an unexpected failure from the identity provider
// or the document store. Rendered as a 500 with the message passed through.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func Upstream(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Err: err}
}
