package session

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// Resolver turns an incoming request into the current user's identity.
type Resolver struct {
	authority      *Authority
	legacyFallback bool
}

func NewResolver(authority *Authority, legacyFallback bool) *Resolver {
	return &Resolver{authority: authority, legacyFallback: legacyFallback}
}

// ResolveCurrentUser verifies the session cookie. When it is missing or
// invalid and the legacy fallback is on, an auth-token=authenticated cookie
// yields LegacyIdentity.
func (res *Resolver) ResolveCurrentUser(r *http.Request) (Identity, bool) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		id, err := res.authority.Verify(r.Context(), cookie.Value)
		if err == nil {
			return id, true
		}
		log.Debug().Str("path", r.URL.Path).Msg("rejected session cookie")
	}

	if !res.legacyFallback {
		return Identity{}, false
	}
	if cookie, err := r.Cookie(LegacyCookieName); err == nil && cookie.Value == LegacyCookieValue {
		log.Warn().Str("path", r.URL.Path).Msg("request authenticated by legacy auth-token cookie")
		return LegacyIdentity, true
	}
	return Identity{}, false
}

// SessionToken returns the raw session cookie value, if any.
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
