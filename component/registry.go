package component

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kbukum/speakeralign/logger"
)

// stopTimeout bounds each component's Stop call.
const stopTimeout = 10 * time.Second

// Registry starts components in registration order and stops them in
// reverse. Because start halts at the first failure, the started components
// are always a prefix of the registered ones.
type Registry struct {
	mu         sync.Mutex
	components []Component
	started    int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends c. Register dependencies first.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.ContainsFunc(r.components, func(x Component) bool { return x.Name() == c.Name() }) {
		return fmt.Errorf("component %s already registered", c.Name())
	}
	r.components = append(r.components, c)
	logger.Debug("Component registered", map[string]interface{}{logger.FieldComponent: c.Name()})
	return nil
}

// StartAll starts every component not yet started.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for ; r.started < len(r.components); r.started++ {
		c := r.components[r.started]
		if err := c.Start(ctx); err != nil {
			logger.Error("Component start failed", map[string]interface{}{
				logger.FieldComponent: c.Name(),
				logger.FieldError:     err.Error(),
			})
			return fmt.Errorf("failed to start %s: %w", c.Name(), err)
		}
	}
	logger.Info("All components started", map[string]interface{}{"count": r.started})
	return nil
}

// StopAll stops the started components, last first, and joins their errors.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for ; r.started > 0; r.started-- {
		c := r.components[r.started-1]
		if err := stopOne(ctx, c); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", c.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func stopOne(ctx context.Context, c Component) error {
	ctx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()

	fields := map[string]interface{}{logger.FieldComponent: c.Name()}
	if err := c.Stop(ctx); err != nil {
		fields[logger.FieldError] = err.Error()
		logger.Error("Component stop failed", fields)
		return err
	}
	logger.Info("Component stopped", fields)
	return nil
}

// HealthAll returns every component's health in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.Lock()
	components := slices.Clone(r.components)
	r.mu.Unlock()

	results := make([]Health, 0, len(components))
	for _, c := range components {
		results = append(results, c.Health(ctx))
	}
	return results
}

// Unhealthy filters results down to the entries that are not healthy.
func Unhealthy(results []Health) []Health {
	return slices.DeleteFunc(slices.Clone(results), func(h Health) bool {
		return h.Status == StatusHealthy
	})
}
