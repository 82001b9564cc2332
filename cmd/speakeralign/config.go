package main

import (
	"github.com/kbukum/speakeralign/config"
	"github.com/kbukum/speakeralign/diarization/pyannote"
	"github.com/kbukum/speakeralign/observability"
	"github.com/kbukum/speakeralign/server"
	"github.com/kbukum/speakeralign/speech"
	"github.com/kbukum/speakeralign/transcription/whisper"
	"github.com/kbukum/speakeralign/validation"
	"github.com/kbukum/speakeralign/version"
)

// Config is the service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server   server.Config        `yaml:"server" mapstructure:"server"`
	Whisper  whisper.Config       `yaml:"whisper" mapstructure:"whisper"`
	Pyannote PyannoteConfig       `yaml:"pyannote" mapstructure:"pyannote"`
	Pipeline speech.Config        `yaml:"pipeline" mapstructure:"pipeline"`
	Tracing  observability.Config `yaml:"tracing" mapstructure:"tracing"`
}

// PyannoteConfig adds an on/off switch to the diarization sidecar settings.
// Without diarization every transcript is attributed to a single unknown
// speaker.
type PyannoteConfig struct {
	Enabled         bool `yaml:"enabled" mapstructure:"enabled"`
	pyannote.Config `yaml:",inline" mapstructure:",squash"`
}

// ApplyDefaults fills unset fields across all sections.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.GetVersionInfo().Version
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Whisper.ApplyDefaults()
	c.Pyannote.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
	c.Tracing.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	if err := c.Tracing.Validate(); err != nil {
		return err
	}
	return validation.New().
		Required("whisper.url", c.Whisper.URL).
		Range("whisper.beam_size", c.Whisper.BeamSize, 1, 20).
		Custom(!c.Pyannote.Enabled || c.Pyannote.URL != "", "pyannote.url", "is required when diarization is enabled").
		Err()
}

// loadConfig reads config.yml, .env and the environment. An empty path
// searches the standard locations.
func loadConfig(path string) (*Config, error) {
	var opts []config.LoaderOption
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	opts = append(opts, config.WithDefaults(map[string]any{
		"pyannote.enabled": true,
	}))

	cfg := &Config{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
