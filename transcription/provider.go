package transcription

import (
	"context"

	"github.com/kbukum/speakeralign/provider"
)

// Provider turns an audio file into text with word-level timestamps.
// Implementations return *errors.AppError values; sidecar failures are
// EXTERNAL_SERVICE_ERROR so callers can retry them.
type Provider interface {
	provider.Provider

	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
}

// NewManager creates an empty manager for transcription backends.
func NewManager() *provider.Manager[Provider] {
	return provider.NewManager[Provider](nil)
}
