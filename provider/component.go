package provider

import (
	"context"
	"sort"
	"strings"

	"github.com/kbukum/speakeralign/component"
	"github.com/kbukum/speakeralign/logger"
)

// Component exposes a Manager's providers to the component registry so
// their health shows up on /health. Sidecars often start after the service,
// so Start only logs what it finds.
type Component[T Provider] struct {
	name     string
	manager  *Manager[T]
	optional bool
	log      *logger.Logger
}

var _ component.Component = (*Component[Provider])(nil)

// NewComponent wraps manager. An unavailable optional manager (diarization)
// reports degraded instead of unhealthy, mirroring how the pipeline falls
// back when it is missing.
func NewComponent[T Provider](name string, manager *Manager[T], optional bool) *Component[T] {
	return &Component[T]{
		name:     name,
		manager:  manager,
		optional: optional,
		log:      logger.Get(name),
	}
}

// Name returns the component name.
func (c *Component[T]) Name() string { return c.name }

// Start probes every provider once and logs the outcome.
func (c *Component[T]) Start(ctx context.Context) error {
	for name, h := range c.manager.Health(ctx) {
		fields := map[string]interface{}{
			logger.FieldProvider: name,
			logger.FieldStatus:   h.Status.String(),
		}
		if h.Status == StatusHealthy {
			c.log.Info("Provider ready", fields)
			continue
		}
		fields["message"] = h.Message
		c.log.Warn("Provider not ready", fields)
	}
	return nil
}

// Stop is a no-op; providers hold no resources beyond idle connections.
func (c *Component[T]) Stop(context.Context) error { return nil }

// Health folds provider health into one component status. Any healthy
// provider is enough to serve requests.
func (c *Component[T]) Health(ctx context.Context) component.Health {
	statuses := c.manager.Health(ctx)
	if len(statuses) == 0 {
		return c.unavailable("no providers configured")
	}

	names := make([]string, 0, len(statuses))
	for name := range statuses {
		names = append(names, name)
	}
	sort.Strings(names)

	best := StatusUnavailable
	var messages []string
	for _, name := range names {
		h := statuses[name]
		if h.Status < best {
			best = h.Status
		}
		if h.Message != "" {
			messages = append(messages, name+": "+h.Message)
		}
	}

	switch best {
	case StatusHealthy:
		return component.Health{Name: c.name, Status: component.StatusHealthy}
	case StatusDegraded:
		return component.Health{Name: c.name, Status: component.StatusDegraded, Message: strings.Join(messages, "; ")}
	default:
		return c.unavailable(strings.Join(messages, "; "))
	}
}

func (c *Component[T]) unavailable(msg string) component.Health {
	status := component.StatusUnhealthy
	if c.optional {
		status = component.StatusDegraded
	}
	return component.Health{Name: c.name, Status: status, Message: msg}
}
