package provider

import (
	"context"
	"slices"

	"github.com/kbukum/speakeralign/errors"
)

// Selector picks one backend out of those a Manager holds.
type Selector[T Provider] interface {
	Select(ctx context.Context, providers map[string]T) (T, error)
}

// HealthCheckSelector probes backends in name order and returns the first
// that reports available. Every call probes, so managers that serve hot
// paths pin a default instead.
type HealthCheckSelector[T Provider] struct{}

// Select returns the first available backend.
func (s *HealthCheckSelector[T]) Select(ctx context.Context, providers map[string]T) (T, error) {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if p := providers[name]; p.IsAvailable(ctx) {
			return p, nil
		}
	}
	var zero T
	return zero, errors.ServiceUnavailable("provider").WithDetail("candidates", names)
}
