package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"time"

	"github.com/kbukum/speakeralign/component"
	"github.com/kbukum/speakeralign/logger"
)

// Hook is a shutdown callback, e.g. flushing telemetry.
type Hook func(ctx context.Context) error

// App runs a service with uniform lifecycle management. C is the typed
// application config; any struct embedding config.ServiceConfig satisfies it.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    return a.RegisterComponent(srv)
//	})
//	err = app.Run(ctx)
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	opts        *appOptions
	onConfigure []func(ctx context.Context, app *App[C]) error
	onStop      []Hook
}

// NewApp applies config defaults, validates, and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)
	if o.logger == nil {
		logger.Init(&base.Logging)
		o.logger = logger.GetGlobalLogger()
	}

	return &App[C]{
		Name:       base.Name,
		Version:    base.Version,
		Cfg:        cfg,
		Components: component.NewRegistry(),
		Logger:     o.logger,
		opts:       o,
	}, nil
}

// RegisterComponent adds a component; components start in registration order.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback that runs before components start. It is
// the place to build providers and register components.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// OnStop registers hooks that run at shutdown before components are stopped.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// Run configures and starts the service, then blocks until ctx is canceled
// or a shutdown signal arrives, and stops everything within the graceful
// timeout. A startup failure still stops what was already started.
func (a *App[C]) Run(ctx context.Context) error {
	a.Logger.Info("Starting application", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
	})

	if err := a.start(ctx); err != nil {
		return errors.Join(err, a.stop())
	}

	sigCtx, cancel := signal.NotifyContext(ctx, a.opts.signals...)
	defer cancel()
	<-sigCtx.Done()
	a.Logger.Info("Shutting down", map[string]interface{}{"cause": context.Cause(sigCtx).Error()})

	return a.stop()
}

func (a *App[C]) start(ctx context.Context) error {
	began := time.Now()
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}
	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	// Sidecars may still be loading models; report them but keep serving.
	for _, h := range component.Unhealthy(a.Components.HealthAll(ctx)) {
		a.Logger.Warn("Component not ready", map[string]interface{}{
			logger.FieldComponent: h.Name,
			"status":              string(h.Status),
			"message":             h.Message,
		})
	}

	a.Logger.Info("Application ready", logger.DurationFields("startup", time.Since(began)))
	return nil
}

func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.opts.gracefulTimeout)
	defer cancel()

	var errs []error
	for i, h := range a.onStop {
		if err := h(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop hook %d: %w", i, err))
		}
	}
	errs = append(errs, a.Components.StopAll(ctx))

	err := errors.Join(errs...)
	if err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.ErrorFields("shutdown", err))
		return err
	}
	a.Logger.Info("Application shutdown complete")
	return nil
}
