package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "speakeralign"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug log level in development, got %q", cfg.Logging.Level)
		}
		if cfg.Logging.ServiceName != "speakeralign" {
			t.Errorf("expected service name to propagate to logging, got %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info log level, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	valid := func(env string) ServiceConfig {
		c := ServiceConfig{Name: "svc", Environment: env}
		c.Logging.ApplyDefaults()
		return c
	}
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid development", valid("development"), ""},
		{"valid production", valid("production"), ""},
		{"missing name", ServiceConfig{Environment: "production"}, "name: is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "environment: must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Whisper       struct {
		URL     string        `mapstructure:"url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"whisper"`
	Pipeline struct {
		QueueTimeout time.Duration `mapstructure:"queue_timeout"`
	} `mapstructure:"pipeline"`
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
name: speakeralign
environment: staging
whisper:
  url: http://whisper:8000
  timeout: 90s
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg testConfig
	if err := LoadConfig("speakeralign", &cfg, WithConfigFile(configPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "speakeralign" {
		t.Errorf("expected name 'speakeralign', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Whisper.URL != "http://whisper:8000" {
		t.Errorf("unexpected whisper url %q", cfg.Whisper.URL)
	}
	if cfg.Whisper.Timeout != 90*time.Second {
		t.Errorf("expected 90s timeout, got %v", cfg.Whisper.Timeout)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configPath, []byte("whisper:\n  url: http://from-file\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("WHISPER_URL", "http://from-env")
	t.Setenv("PIPELINE_QUEUE_TIMEOUT", "2s")

	var cfg testConfig
	if err := LoadConfig("speakeralign", &cfg, WithConfigFile(configPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Whisper.URL != "http://from-env" {
		t.Errorf("expected env override, got %q", cfg.Whisper.URL)
	}
	if cfg.Pipeline.QueueTimeout != 2*time.Second {
		t.Errorf("expected queue timeout 2s, got %v", cfg.Pipeline.QueueTimeout)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("nonexistent-service", &cfg,
		WithSearchRoot(t.TempDir()),
		WithDefaults(map[string]any{"whisper.url": "http://localhost:8000"}),
	)
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed without files, got %v", err)
	}
	if cfg.Whisper.URL != "http://localhost:8000" {
		t.Errorf("expected default whisper url, got %q", cfg.Whisper.URL)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("svc", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err == nil || !strings.Contains(err.Error(), "/nonexistent/path.yml") {
		t.Fatalf("expected missing explicit file error, got %v", err)
	}
}

func TestLoadConfigSearchesServiceDir(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("cmd/speakeralign/config.yml", "whisper:\n  url: http://from-cmd\n")
	write("config.yml", "whisper:\n  url: http://from-root\n")
	write(".env", "SPEAKERALIGN_TEST_ENV_FILE=loaded\n")
	t.Setenv("SPEAKERALIGN_TEST_ENV_FILE", "")
	os.Unsetenv("SPEAKERALIGN_TEST_ENV_FILE")

	var cfg testConfig
	if err := LoadConfig("speakeralign", &cfg, WithSearchRoot(root)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Whisper.URL != "http://from-cmd" {
		t.Errorf("expected cmd config to win, got %q", cfg.Whisper.URL)
	}
	if got := os.Getenv("SPEAKERALIGN_TEST_ENV_FILE"); got != "loaded" {
		t.Errorf("expected .env to be loaded, got %q", got)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{"DEBUG", []string{"debug"}},
		{"WHISPER_URL", []string{"whisper_url", "whisper.url"}},
		{"PIPELINE_QUEUE_TIMEOUT", []string{"pipeline_queue_timeout", "pipeline.queue_timeout", "pipeline.queue.timeout"}},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			got := envKeyVariants(tc.key)
			if !slices.Equal(got, tc.want) {
				t.Errorf("envKeyVariants(%q) = %v, want %v", tc.key, got, tc.want)
			}
		})
	}
}
