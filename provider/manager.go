package provider

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/kbukum/speakeralign/errors"
	"github.com/kbukum/speakeralign/logger"
)

// Manager holds the backends of one kind. Callers ask it for "a
// transcriber" and it decides which backend serves the call: the pinned
// default when set, otherwise the Selector's choice.
type Manager[T Provider] struct {
	mu          sync.RWMutex
	selector    Selector[T]
	providers   map[string]T
	defaultName string
	log         *logger.Logger
}

// NewManager creates an empty Manager. A nil selector picks the first
// available backend by name.
func NewManager[T Provider](selector Selector[T]) *Manager[T] {
	if selector == nil {
		selector = &HealthCheckSelector[T]{}
	}
	return &Manager[T]{
		selector:  selector,
		providers: make(map[string]T),
		log:       logger.Get("provider"),
	}
}

// Add stores a backend under name, replacing any earlier one.
func (m *Manager[T]) Add(name string, instance T) {
	m.mu.Lock()
	m.providers[name] = instance
	m.mu.Unlock()
	m.log.Info("Provider added", map[string]interface{}{logger.FieldProvider: name})
}

// Get returns the default backend if one is pinned, otherwise the
// selector's choice. An empty manager yields NOT_FOUND.
func (m *Manager[T]) Get(ctx context.Context) (T, error) {
	m.mu.RLock()
	if p, ok := m.providers[m.defaultName]; ok && m.defaultName != "" {
		m.mu.RUnlock()
		return p, nil
	}
	providers := maps.Clone(m.providers)
	m.mu.RUnlock()

	if len(providers) == 0 {
		var zero T
		return zero, errors.NotFound("provider", "")
	}
	return m.selector.Select(ctx, providers)
}

// GetByName returns a specific backend.
func (m *Manager[T]) GetByName(name string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.providers[name]; ok {
		return p, nil
	}
	var zero T
	return zero, errors.NotFound("provider", name)
}

// SetDefault pins the backend Get returns, skipping the selector and its
// health probe on every call.
func (m *Manager[T]) SetDefault(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("provider %q not added", name)
	}
	m.defaultName = name
	return nil
}

// Available returns the sorted names of all backends.
func (m *Manager[T]) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Health reports every backend's health, keyed by name. Backends without a
// Health method are judged by IsAvailable.
func (m *Manager[T]) Health(ctx context.Context) map[string]HealthStatus {
	m.mu.RLock()
	providers := maps.Clone(m.providers)
	m.mu.RUnlock()

	out := make(map[string]HealthStatus, len(providers))
	for name, p := range providers {
		out[name] = CheckHealth(ctx, p)
	}
	return out
}
