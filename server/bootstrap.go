package server

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// InitialiseSystem ensures the configured administrator account exists.
// When ADMIN_PASSWORD is empty a password is generated and logged once.
func (s *Server) InitialiseSystem(ctx context.Context) error {
	email := s.config.GetAdminEmail()
	log.Info().Str("email", email).Msg("Bootstrap: checking administrator account")

	generated, err := s.users.EnsureAdmin(ctx, email, s.config.GetAdminPassword())
	if err != nil {
		return fmt.Errorf("failed to bootstrap administrator: %w", err)
	}
	if generated != "" {
		log.Warn().
			Str("email", email).
			Str("password", generated).
			Msg("Bootstrap: administrator created with a generated password, change it after first login")
	}
	return nil
}
