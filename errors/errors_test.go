package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
}

func TestAppError_NotFound_EmptyID(t *testing.T) {
	err := NotFound("provider", "")
	if _, ok := err.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
	if err.Details["resource"] != "provider" {
		t.Errorf("expected resource=provider, got %v", err.Details["resource"])
	}
}

func TestAppError_ExternalServiceError_Success(t *testing.T) {
	cause := fmt.Errorf("status 500")
	err := ExternalServiceError("whisper", cause)
	if err.Details["service"] != "whisper" {
		t.Errorf("expected service=whisper, got %v", err.Details["service"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable with errors.Is")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_UnsupportedFormat_Success(t *testing.T) {
	err := UnsupportedFormat(".exe", []string{".wav", ".ogg"})
	if err.HTTPStatus != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", err.HTTPStatus)
	}
	if err.Details["format"] != ".exe" {
		t.Errorf("expected format=.exe, got %v", err.Details["format"])
	}
}

func TestCodeDefaults(t *testing.T) {
	if got := ErrorCode("SOMETHING_NEW").HTTPStatus(); got != http.StatusInternalServerError {
		t.Errorf("unknown code status = %d", got)
	}
	if ErrorCode("SOMETHING_NEW").Retryable() {
		t.Error("unknown codes must not be retryable")
	}
	if !ErrCodeExternalService.Retryable() || ErrCodeInvalidInput.Retryable() {
		t.Error("retry policy mismatch")
	}
}

func TestAppError_DetailsAccumulate(t *testing.T) {
	err := NotFound("item", "1").WithDetail("extra", "info")
	if err.Details["extra"] != "info" || err.Details["resource"] != "item" || err.Details["id"] != "1" {
		t.Errorf("details = %v", err.Details)
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Unwrap_Success(t *testing.T) {
	cause := fmt.Errorf("underlying")
	if Internal(cause).Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if NotFound("x", "").Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		status    int
		retryable bool
	}{
		{"ServiceUnavailable", ServiceUnavailable("pipeline"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable, true},
		{"UnsupportedFormat", UnsupportedFormat(".txt", nil), ErrCodeUnsupportedFormat, http.StatusUnsupportedMediaType, false},
		{"Timeout", Timeout("transcribe"), ErrCodeTimeout, http.StatusGatewayTimeout, true},
		{"InvalidInput", InvalidInput("num_speakers", "out of range"), ErrCodeInvalidInput, http.StatusBadRequest, false},
		{"MissingField", MissingField("audio"), ErrCodeMissingField, http.StatusBadRequest, false},
		{"AudioUnreadable", AudioUnreadable(nil), ErrCodeAudioUnreadable, http.StatusUnprocessableEntity, false},
		{"ExternalServiceError", ExternalServiceError("whisper", nil), ErrCodeExternalService, http.StatusBadGateway, true},
		{"Validation", Validation("bad input"), ErrCodeInvalidInput, http.StatusBadRequest, false},
		{"Internal", Internal(nil), ErrCodeInternal, http.StatusInternalServerError, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, tc.err.Retryable)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"external", ExternalServiceError("whisper", nil), true},
		{"wrapped external", fmt.Errorf("stage: %w", ExternalServiceError("pyannote", nil)), true},
		{"invalid input", InvalidInput("text", "empty"), false},
		{"plain", fmt.Errorf("boom"), false},
		{"nil", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryable(tc.err); got != tc.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAppError_ToResponse_Success(t *testing.T) {
	resp := InvalidInput("num_speakers", "must be between 1 and 20").ToResponse()
	if resp.Error.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", resp.Error.Code)
	}
	if resp.Error.Details["field"] != "num_speakers" {
		t.Error("expected field=num_speakers in response details")
	}
}

func TestAppError_AsAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("wrap: %w", Internal(nil))

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}
	if IsAppError(fmt.Errorf("plain error")) {
		t.Error("expected IsAppError to return false for plain error")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}

	orig := NotFound("item", "1")
	if Wrap(fmt.Errorf("outer: %w", orig)) != orig {
		t.Error("Wrap should return the AppError from the chain")
	}

	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal || got.Cause != plain {
		t.Errorf("expected INTERNAL_ERROR wrapping the plain error, got %+v", got)
	}
}
