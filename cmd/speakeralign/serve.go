package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/speakeralign/api"
	"github.com/kbukum/speakeralign/bootstrap"
	"github.com/kbukum/speakeralign/component"
	"github.com/kbukum/speakeralign/diarization"
	"github.com/kbukum/speakeralign/diarization/pyannote"
	"github.com/kbukum/speakeralign/logger"
	"github.com/kbukum/speakeralign/observability"
	"github.com/kbukum/speakeralign/provider"
	"github.com/kbukum/speakeralign/server"
	"github.com/kbukum/speakeralign/speech"
	"github.com/kbukum/speakeralign/transcription"
	"github.com/kbukum/speakeralign/transcription/whisper"
)

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config.yml")
	return cmd
}

func serve(ctx context.Context, cfg *Config) error {
	// NewApp applies defaults again; the shutdown timeout is needed first.
	cfg.ApplyDefaults()
	app, err := bootstrap.NewApp(cfg,
		bootstrap.WithGracefulTimeout(time.Duration(cfg.Server.ShutdownTimeout)*time.Second))
	if err != nil {
		return err
	}

	shutdownTelemetry, err := observability.Setup(ctx, cfg.Tracing, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	app.OnStop(shutdownTelemetry)

	app.OnConfigure(func(_ context.Context, a *bootstrap.App[*Config]) error {
		transcribers, err := newTranscribers(cfg.Whisper)
		if err != nil {
			return err
		}
		diarizers, err := newDiarizers(cfg.Pyannote)
		if err != nil {
			return err
		}

		svc := speech.NewService(transcribers, diarizers, nil, cfg.Pipeline)

		srv := server.New(cfg.Server, a.Logger)
		srv.RegisterDefaultEndpoints(cfg.Name, func(ctx context.Context) []component.Health {
			return a.Components.HealthAll(ctx)
		})
		api.NewHandler(svc).Register(srv.Engine())

		for _, c := range []component.Component{
			provider.NewComponent("transcription", transcribers, false),
			provider.NewComponent("diarization", diarizers, true),
			srv,
		} {
			if err := a.RegisterComponent(c); err != nil {
				return err
			}
		}
		return nil
	})

	return app.Run(ctx)
}

// newTranscribers pins the Whisper sidecar as the default so requests do
// not pay for a health probe.
func newTranscribers(cfg whisper.Config) (*provider.Manager[transcription.Provider], error) {
	p, err := whisper.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	m := transcription.NewManager()
	m.Add(whisper.ProviderName, p)
	if err := m.SetDefault(whisper.ProviderName); err != nil {
		return nil, err
	}
	return m, nil
}

// newDiarizers returns an empty manager when diarization is disabled; the
// pipeline then attributes everything to one unknown speaker.
func newDiarizers(cfg PyannoteConfig) (*provider.Manager[diarization.Provider], error) {
	m := diarization.NewManager()
	if !cfg.Enabled {
		logger.Get("diarization").Warn("Diarization disabled, transcripts will carry a single speaker")
		return m, nil
	}

	p, err := pyannote.NewProvider(cfg.Config)
	if err != nil {
		return nil, fmt.Errorf("pyannote: %w", err)
	}
	m.Add(pyannote.ProviderName, p)
	if err := m.SetDefault(pyannote.ProviderName); err != nil {
		return nil, err
	}
	return m, nil
}
