package speech

import (
	"time"

	"github.com/kbukum/speakeralign/resilience"
	"github.com/kbukum/speakeralign/validation"
)

// Config tunes the pipeline.
type Config struct {
	// QueueTimeout bounds how long a request waits for the pipeline. Zero
	// waits until the request context ends.
	QueueTimeout time.Duration `yaml:"queue_timeout" mapstructure:"queue_timeout"`
	// RejectWhenBusy fails immediately instead of queueing.
	RejectWhenBusy bool `yaml:"reject_when_busy" mapstructure:"reject_when_busy"`
	// RetryAttempts is the number of attempts per provider call.
	RetryAttempts int `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	// RetryBackoff is the delay before the second attempt.
	RetryBackoff time.Duration `yaml:"retry_backoff" mapstructure:"retry_backoff"`
	// DefaultLanguage is used when a request names none. Empty lets the
	// transcriber detect the language.
	DefaultLanguage string `yaml:"default_language" mapstructure:"default_language"`
	// FillerWords replaces the built-in filler vocabulary when set.
	FillerWords []string `yaml:"filler_words" mapstructure:"filler_words"`
}

// ApplyDefaults fills in unset fields.
func (c *Config) ApplyDefaults() {
	if c.RetryAttempts == 0 {
		c.RetryAttempts = 2
	}
	if c.RetryBackoff == 0 {
		c.RetryBackoff = 500 * time.Millisecond
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	return validation.New().
		Min("pipeline.retry_attempts", c.RetryAttempts, 1).
		Custom(c.QueueTimeout >= 0, "pipeline.queue_timeout", "must be non-negative").
		Custom(c.RetryBackoff >= 0, "pipeline.retry_backoff", "must be non-negative").
		Err()
}

// maxWait converts the queueing settings into a bulkhead wait.
func (c *Config) maxWait() time.Duration {
	switch {
	case c.RejectWhenBusy:
		return 0
	case c.QueueTimeout == 0:
		return resilience.WaitForever
	default:
		return c.QueueTimeout
	}
}
