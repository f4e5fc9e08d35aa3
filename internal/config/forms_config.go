package config

import "time"

type FormsConfig interface {
	GetFormsAPIKey() string
	GetFormsBaseURL() string
	GetFormsCacheTTL() time.Duration
	GetLLMAPIKey() string
}

// Forms holds the server-wide third-party credentials, used when a user has not stored their own.
type Forms struct {
	FormsAPIKey   string        `envconfig:"FORMS_API_KEY"`
	FormsBaseURL  string        `envconfig:"FORMS_BASE_URL" default:"https://api.typeform.com"`
	FormsCacheTTL time.Duration `envconfig:"FORMS_CACHE_TTL" default:"5m"`
	LLMAPIKey     string        `envconfig:"LLM_API_KEY"`
}

var _ FormsConfig = Forms{}

func (f Forms) GetFormsAPIKey() string {
	return f.FormsAPIKey
}

func (f Forms) GetFormsBaseURL() string {
	return f.FormsBaseURL
}

func (f Forms) GetFormsCacheTTL() time.Duration {
	return f.FormsCacheTTL
}

func (f Forms) GetLLMAPIKey() string {
	return f.LLMAPIKey
}
