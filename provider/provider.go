package provider

import "context"

// Provider is the base interface every backend (transcriber, diarizer)
// implements.
type Provider interface {
	// Name returns the provider's unique name, e.g. "whisper".
	Name() string
	// IsAvailable checks if the provider is ready to handle requests.
	IsAvailable(ctx context.Context) bool
}
