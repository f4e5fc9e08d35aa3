package server

import (
	"net/http"

	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/jrsteele09/survey-admin/internal/metrics"
	"github.com/jrsteele09/survey-admin/session"
	"github.com/jrsteele09/survey-admin/users"
	"github.com/rs/zerolog/log"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	User *users.User `json:"user"`
}

// LoginHandler verifies the password and sets the session cookie.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
			return
		}

		user, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
		if apperrors.Is(err, apperrors.ErrInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			log.Warn().Str("email", users.NormaliseEmail(req.Email)).Msg("login failed")
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
			return
		}
		if err != nil {
			metrics.LoginAttempts.WithLabelValues("error").Inc()
			writeServiceError(w, r, err)
			return
		}

		token, err := s.authority.Issue(session.IdentityFromUser(user))
		if err != nil {
			metrics.LoginAttempts.WithLabelValues("error").Inc()
			writeServiceError(w, r, err)
			return
		}

		metrics.LoginAttempts.WithLabelValues("success").Inc()
		log.Info().Str("user_id", user.ID).Msg("user logged in")
		s.cookies.SetSessionCookie(w, r, token)
		writeJSON(w, http.StatusOK, userResponse{User: user})
	}
}

// LogoutHandler expires the session cookie and, when a denylist is
// configured, revokes the token server side.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := session.SessionToken(r); token != "" {
			if err := s.authority.Revoke(r.Context(), token); err != nil {
				log.Warn().Err(err).Msg("failed to revoke session")
			}
		}
		s.cookies.ClearSessionCookie(w, r)
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}

type meResponse struct {
	User session.Identity `json:"user"`
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFromContext(r.Context())
		writeJSON(w, http.StatusOK, meResponse{User: id})
	}
}
