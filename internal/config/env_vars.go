package config

import (
	"fmt"
	"strings"
)

const productionEnv = "PROD"

type EnvVars struct {
	Port     string `envconfig:"PORT" default:"8080"`
	AppName  string `envconfig:"APP_NAME" default:"Survey Admin"`
	Env      string `envconfig:"ENV" default:"DEV"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "8080"
	}
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return strings.ToUpper(e.Env)
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

// IsProduction drives the Secure attribute on session cookies.
func (e EnvVars) IsProduction() bool {
	return e.GetEnv() == productionEnv
}
