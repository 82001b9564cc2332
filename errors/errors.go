package errors

import (
	"fmt"
	"slices"
	"strings"
)

// AppError is the error every package boundary returns.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, " (cause: %v)", e.Cause)
	}
	return b.String()
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause records the underlying error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail adds one detail and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, 1)
	}
	e.Details[key] = value
	return e
}

// New creates an AppError with an explicit status; retryability follows
// the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Retryable: code.Retryable()}
}

// newCode creates an AppError with the code's default status. details may
// be given as alternating key/value pairs.
func newCode(code ErrorCode, message string, kv ...any) *AppError {
	e := &AppError{Code: code, Message: message, HTTPStatus: code.HTTPStatus(), Retryable: code.Retryable()}
	for i := 0; i+1 < len(kv); i += 2 {
		e.WithDetail(kv[i].(string), kv[i+1])
	}
	return e
}

// ServiceUnavailable reports that service cannot take the call right now.
func ServiceUnavailable(service string) *AppError {
	return newCode(ErrCodeServiceUnavailable,
		fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service), "service", service)
}

// Timeout reports that operation ran past the caller's deadline.
func Timeout(operation string) *AppError {
	return newCode(ErrCodeTimeout, "The request took too long. Please try again.", "operation", operation)
}

// NotFound reports a missing resource. id is omitted from details when empty.
func NotFound(resource, id string) *AppError {
	e := newCode(ErrCodeNotFound, fmt.Sprintf("The requested %s was not found.", resource), "resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

// InvalidInput reports a bad value for field.
func InvalidInput(field, reason string) *AppError {
	e := newCode(ErrCodeInvalidInput, "Invalid input: "+reason)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation reports one or more failed request checks.
func Validation(message string) *AppError {
	return newCode(ErrCodeInvalidInput, message)
}

// MissingField reports a required field that was not sent.
func MissingField(field string) *AppError {
	return newCode(ErrCodeMissingField, "Missing required field: "+field, "field", field)
}

// UnsupportedFormat reports an upload whose extension is not in allowed.
func UnsupportedFormat(ext string, allowed []string) *AppError {
	return newCode(ErrCodeUnsupportedFormat, fmt.Sprintf("Audio format %q is not supported.", ext),
		"format", ext, "allowed", slices.Clone(allowed))
}

// AudioUnreadable reports audio that could not be read or stored.
func AudioUnreadable(cause error) *AppError {
	return newCode(ErrCodeAudioUnreadable, "The uploaded audio could not be read.").WithCause(cause)
}

// Internal reports an unexpected failure.
func Internal(cause error) *AppError {
	return newCode(ErrCodeInternal, "An unexpected error occurred. Please try again or contact support.").WithCause(cause)
}

// ExternalServiceError reports a failed call to a sidecar.
func ExternalServiceError(service string, cause error) *AppError {
	return newCode(ErrCodeExternalService,
		fmt.Sprintf("The %s service encountered an error. Please try again.", service), "service", service).
		WithCause(cause)
}

// Wrap converts any error into an AppError. AppErrors anywhere in the chain
// are returned as-is; other errors become INTERNAL_ERROR with err as cause.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
