package diarization

import (
	"context"

	"github.com/kbukum/speakeralign/provider"
)

// Provider splits an audio file into speaker turns. Turns may overlap and
// need not be sorted.
type Provider interface {
	provider.Provider

	Diarize(ctx context.Context, req DiarizationRequest) (*DiarizationResponse, error)
}

// NewManager creates an empty manager for diarization backends. The
// pipeline treats an empty manager as "diarization disabled".
func NewManager() *provider.Manager[Provider] {
	return provider.NewManager[Provider](nil)
}
