package errors

import "net/http"

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// ErrCodeServiceUnavailable: the pipeline or a provider cannot take the call now.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout: the caller's deadline passed before the work finished.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeExternalService: a transcription or diarization sidecar failed.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"

	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"

	// ErrCodeUnsupportedFormat: the upload's extension is not an accepted audio container.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeAudioUnreadable: the upload could not be read or spooled to disk.
	ErrCodeAudioUnreadable ErrorCode = "AUDIO_UNREADABLE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type codeDefault struct {
	status    int
	retryable bool
}

// codeDefaults is the status and retry policy each code carries. Only
// availability and sidecar failures are worth retrying.
var codeDefaults = map[ErrorCode]codeDefault{
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, true},
	ErrCodeTimeout:            {http.StatusGatewayTimeout, true},
	ErrCodeExternalService:    {http.StatusBadGateway, true},
	ErrCodeNotFound:           {http.StatusNotFound, false},
	ErrCodeInvalidInput:       {http.StatusBadRequest, false},
	ErrCodeMissingField:       {http.StatusBadRequest, false},
	ErrCodeUnsupportedFormat:  {http.StatusUnsupportedMediaType, false},
	ErrCodeAudioUnreadable:    {http.StatusUnprocessableEntity, false},
	ErrCodeInternal:           {http.StatusInternalServerError, false},
}

// HTTPStatus is the status a response for this code uses by default.
// Unknown codes map to 500.
func (c ErrorCode) HTTPStatus() int {
	if d, ok := codeDefaults[c]; ok {
		return d.status
	}
	return http.StatusInternalServerError
}

// Retryable reports whether failures with this code may succeed on retry.
func (c ErrorCode) Retryable() bool {
	return codeDefaults[c].retryable
}
