package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type loader struct {
	root       string
	configFile string
	defaults   map[string]any
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*loader)

// WithConfigFile sets an explicit config file path. A missing explicit file
// is an error, unlike the searched locations.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) { l.configFile = path }
}

// WithSearchRoot makes the search for config.yml and .env start at dir
// instead of the working directory.
func WithSearchRoot(dir string) LoaderOption {
	return func(l *loader) { l.root = dir }
}

// WithDefaults registers dotted-key defaults that apply when neither the
// config file nor the environment sets a value.
func WithDefaults(defaults map[string]any) LoaderOption {
	return func(l *loader) { l.defaults = defaults }
}

// LoadConfig loads configuration for a service into cfg.
//
// Precedence, lowest first: defaults, config.yml, .env, process environment.
// Environment keys map onto nested config keys, so WHISPER_URL sets
// whisper.url and PIPELINE_QUEUE_TIMEOUT sets pipeline.queue_timeout.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	l := &loader{root: "."}
	for _, opt := range opts {
		opt(l)
	}

	v := viper.New()
	for k, val := range l.defaults {
		v.SetDefault(k, val)
	}

	configFile, err := l.pick(l.configFile, configCandidates(serviceName))
	if err != nil {
		return err
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	// godotenv.Load never overrides variables already in the environment.
	envFile, err := l.pick("", envCandidates(serviceName))
	if err != nil {
		return err
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}
	bindEnv(v, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

// pick returns explicit when set, failing if it does not exist, and otherwise
// the first candidate under the search root. Empty means nothing was found.
func (l *loader) pick(explicit string, candidates []string) (string, error) {
	if explicit != "" {
		if !exists(explicit) {
			return "", fmt.Errorf("config: %s not found", explicit)
		}
		return explicit, nil
	}
	for _, c := range candidates {
		if p := filepath.Join(l.root, c); exists(p) {
			return p, nil
		}
	}
	return "", nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// configCandidates lists config.yml locations in priority order. The service
// directory under cmd/ wins so `go run ./cmd/<svc>` and a binary started from
// the repo root both find the same file.
func configCandidates(serviceName string) []string {
	var paths []string
	for _, prefix := range []string{".", "..", "../.."} {
		paths = append(paths, filepath.Join(prefix, "cmd", serviceName, "config.yml"))
	}
	return append(paths, filepath.Join("config", "config.yml"), "config.yml")
}

func envCandidates(serviceName string) []string {
	var paths []string
	for _, name := range []string{".env." + serviceName, ".env"} {
		for _, dir := range []string{filepath.Join("cmd", serviceName), ".", ".."} {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths
}

// bindEnv sets every KEY=value pair under each nested key it could address.
func bindEnv(v *viper.Viper, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants expands an environment key into the dotted config keys it
// may refer to:
//
//	PIPELINE_QUEUE_TIMEOUT -> pipeline_queue_timeout, pipeline.queue_timeout,
//	                          pipeline.queue.timeout
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")

	variants := []string{lower}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return variants
}
