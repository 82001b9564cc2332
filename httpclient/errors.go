package httpclient

import (
	"fmt"

	"github.com/kbukum/speakeralign/errors"
)

// maxErrorBody caps how much of a failing response is kept for logs.
const maxErrorBody = 512

// StatusError is a non-2xx answer from a sidecar.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether repeating the request may succeed. Client
// errors mean the sidecar rejected the audio itself, except for 408 and 429.
func (e *StatusError) Retryable() bool {
	switch {
	case e.StatusCode == 408 || e.StatusCode == 429:
		return true
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return false
	default:
		return true
	}
}

// externalError wraps cause as EXTERNAL_SERVICE_ERROR for service, keeping
// the status code in the details when the sidecar answered.
func externalError(service string, cause error) *errors.AppError {
	appErr := errors.ExternalServiceError(service, cause)
	if se, ok := cause.(*StatusError); ok {
		appErr.Retryable = se.Retryable()
		appErr.WithDetail("status", se.StatusCode)
	}
	return appErr
}
