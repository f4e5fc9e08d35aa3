package config

import "time"

// Session lifetime is fixed, tokens and cookies both use it.
const sessionTTL = 7 * 24 * time.Hour

type SecurityConfig interface {
	GetEncryptionKey() string
	GetJWTSecret() string
	GetSessionTTL() time.Duration
	GetLegacyAuthCookie() bool
	GetSessionDenylist() string
	GetRedisURL() string
	GetAdminEmail() string
	GetAdminPassword() string
}

type Security struct {
	EncryptionKey    string `envconfig:"ENCRYPTION_KEY"`
	JWTSecret        string `envconfig:"JWT_SECRET"`
	LegacyAuthCookie bool   `envconfig:"LEGACY_AUTH_COOKIE" default:"false"`
	SessionDenylist  string `envconfig:"SESSION_DENYLIST"` // "", "memory" or "redis"
	RedisURL         string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	AdminEmail       string `envconfig:"ADMIN_EMAIL" default:"admin@admin.com"`
	AdminPassword    string `envconfig:"ADMIN_PASSWORD"`
}

var _ SecurityConfig = Security{}

func (s Security) GetEncryptionKey() string {
	return s.EncryptionKey
}

func (s Security) GetJWTSecret() string {
	return s.JWTSecret
}

func (Security) GetSessionTTL() time.Duration {
	return sessionTTL
}

// GetLegacyAuthCookie reports whether the deprecated auth-token cookie is honoured.
func (s Security) GetLegacyAuthCookie() bool {
	return s.LegacyAuthCookie
}

func (s Security) GetSessionDenylist() string {
	return s.SessionDenylist
}

func (s Security) GetRedisURL() string {
	return s.RedisURL
}

func (s Security) GetAdminEmail() string {
	return s.AdminEmail
}

func (s Security) GetAdminPassword() string {
	return s.AdminPassword
}
