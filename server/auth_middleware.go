package server

import (
	"context"
	"net/http"

	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/jrsteele09/survey-admin/internal/metrics"
	"github.com/jrsteele09/survey-admin/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyIdentity stores the resolved session.Identity
	ContextKeyIdentity ContextKey = "identity"
)

// IdentityFromContext returns the identity stored by RequireSession.
func IdentityFromContext(ctx context.Context) (session.Identity, bool) {
	id, ok := ctx.Value(ContextKeyIdentity).(session.Identity)
	return id, ok
}

// RequireSession rejects requests without a verified session with 401.
func (s *Server) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.resolver.ResolveCurrentUser(r)
		if !ok {
			if session.SessionToken(r) != "" {
				metrics.SessionRejections.Inc()
			}
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		if id == session.LegacyIdentity {
			metrics.LegacyCookieRequests.Inc()
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ContextKeyIdentity, id)))
	}
}

// RequireAdmin must run after RequireSession. Non-admins get 403.
func (s *Server) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		if !id.IsAdmin() {
			writeServiceError(w, r, apperrors.Wrapf(apperrors.ErrForbidden, "user %s is not an admin", id.SubjectID))
			return
		}
		next(w, r)
	}
}
