package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	FormsConfig
	StoreConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	IsProduction() bool
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Forms
	Store
}

// New loads the configuration from the process environment.
func New() (Config, error) {
	var c mainConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("[config New] envconfig.Process: %w", err)
	}
	return c, nil
}
