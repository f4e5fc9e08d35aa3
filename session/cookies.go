package session

import (
	"net/http"
	"time"
)

const (
	// CookieName carries the signed session token.
	CookieName = "session"
	// LegacyCookieName is the pre-session marker cookie, honoured only while
	// the legacy fallback is enabled.
	LegacyCookieName  = "auth-token"
	LegacyCookieValue = "authenticated"
)

// CookieWriter sets and clears the session cookies. Secure is set in
// production or whenever the request arrived over TLS.
type CookieWriter struct {
	Production bool
	MaxAge     time.Duration
}

func (c CookieWriter) secure(r *http.Request) bool {
	return c.Production || getScheme(r) == "https"
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}

// SetSessionCookie stores token in an HttpOnly, SameSite=Lax cookie scoped to /.
func (c CookieWriter) SetSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	maxAge := c.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultTTL
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge / time.Second),
	})
}

// ClearSessionCookie expires both the session and the legacy cookie.
func (c CookieWriter) ClearSessionCookie(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{CookieName, LegacyCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   c.secure(r),
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

// SetLegacyCookie writes the pre-session marker. The service itself never
// issues it on login.
func (c CookieWriter) SetLegacyCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     LegacyCookieName,
		Value:    LegacyCookieValue,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(DefaultTTL / time.Second),
	})
}
