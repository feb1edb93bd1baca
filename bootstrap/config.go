package bootstrap

import (
	"github.com/kbukum/voxpersona/config"
)

// Config is implemented by application configs that embed
// config.ServiceConfig.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
