package bootstrap

import (
	"github.com/kbukum/speakeralign/config"
)

// Config is the constraint for application configuration types. Structs
// embedding config.ServiceConfig satisfy it through promoted methods; they
// usually override ApplyDefaults and Validate and call the embedded versions.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
