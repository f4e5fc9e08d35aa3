package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/survey-admin/credentials"
	"github.com/jrsteele09/survey-admin/customers"
	"github.com/jrsteele09/survey-admin/forms"
	"github.com/jrsteele09/survey-admin/internal/config"
	"github.com/jrsteele09/survey-admin/session"
	"github.com/jrsteele09/survey-admin/users"
	"github.com/jrsteele09/survey-admin/vault"
	"github.com/rs/zerolog/log"
)

// Repos are the persistence collaborators the server is built on.
type Repos struct {
	Users       users.Repo
	Credentials credentials.Repo
	Customers   customers.Repo
}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	nowFunc   func() time.Time
	denylist  session.Denylist
	provider  *forms.Provider
	health    map[string]HealthCheck
	authority *session.Authority
	resolver  *session.Resolver
	cookies   session.CookieWriter

	users      *users.Service
	keys       *credentials.Service
	customers  *customers.Service
	formsCache *forms.Cache[forms.FormList]
	analytics  *forms.Analytics
}

type Option func(*Server)

// WithDenylist enables server-side session revocation.
func WithDenylist(d session.Denylist) Option {
	return func(s *Server) {
		s.denylist = d
	}
}

// WithFormsProvider overrides the provider built from configuration.
func WithFormsProvider(p *forms.Provider) Option {
	return func(s *Server) {
		s.provider = p
	}
}

// WithHealthCheck adds a named dependency check to the health endpoint.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(s *Server) {
		s.health[name] = check
	}
}

// WithNowFunc sets the clock (primarily for testing)
func WithNowFunc(nowFunc func() time.Time) Option {
	return func(s *Server) {
		s.nowFunc = nowFunc
	}
}

func New(ctx context.Context, cfg config.Config, repos Repos, options ...Option) (*Server, error) {
	s := &Server{
		env:     cfg.GetEnv(),
		mux:     http.NewServeMux(),
		config:  cfg,
		nowFunc: time.Now,
		health:  make(map[string]HealthCheck),
	}
	for _, opt := range options {
		opt(s)
	}

	v := vault.New(cfg.GetEncryptionKey())
	if err := v.Validate(); err != nil {
		log.Error().Err(err).Msg("ENCRYPTION_KEY is invalid")
		return nil, fmt.Errorf("[Server New] %w", err)
	}

	sessionOpts := []session.Option{session.WithNowFunc(s.nowFunc), session.WithTTL(cfg.GetSessionTTL())}
	if s.denylist != nil {
		sessionOpts = append(sessionOpts, session.WithDenylist(s.denylist))
	}
	s.authority = session.NewAuthority(cfg.GetJWTSecret(), sessionOpts...)
	if err := s.authority.Validate(); err != nil {
		log.Error().Err(err).Msg("JWT_SECRET is not set")
		return nil, fmt.Errorf("[Server New] %w", err)
	}
	s.resolver = session.NewResolver(s.authority, cfg.GetLegacyAuthCookie())
	s.cookies = session.CookieWriter{Production: cfg.IsProduction(), MaxAge: cfg.GetSessionTTL()}
	if cfg.GetLegacyAuthCookie() {
		log.Warn().Msg("LEGACY_AUTH_COOKIE is enabled: auth-token=authenticated grants administrator access")
	}

	var err error
	if s.users, err = users.NewService(repos.Users, users.WithNowTime(s.nowFunc)); err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}
	if s.keys, err = credentials.NewService(repos.Credentials, v,
		credentials.WithServerKey(credentials.IntegrationForms, cfg.GetFormsAPIKey()),
		credentials.WithServerKey(credentials.IntegrationLLM, cfg.GetLLMAPIKey()),
		credentials.WithNowTime(s.nowFunc),
	); err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}
	if s.customers, err = customers.NewService(repos.Customers, customers.WithNowTime(s.nowFunc)); err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}

	if s.provider == nil {
		s.provider = forms.NewProvider(cfg.GetFormsBaseURL())
	}
	s.formsCache = forms.NewCache[forms.FormList](cfg.GetFormsCacheTTL(), s.nowFunc)
	s.analytics = forms.NewAnalytics(forms.WithAnalyticsNowFunc(s.nowFunc))

	if err := s.InitialiseSystem(ctx); err != nil {
		return nil, fmt.Errorf("[Server New] Failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// RunJanitor drops expired cache and denylist entries until ctx is done.
func (s *Server) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.formsCache.Cleanup()
			if c, ok := s.denylist.(interface{ Cleanup() }); ok {
				c.Cleanup()
			}
			log.Debug().Int("cache_entries_removed", removed).Msg("janitor pass complete")
		}
	}
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	log.Info().Msgf("[%-19s] %s", methodColour(method)+paddedMethod+ansiReset, path)
}
