package session_test

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/jrsteele09/survey-admin/session"
	"github.com/jrsteele09/survey-admin/users"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

var issuedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newAuthority(c *clock, opts ...session.Option) *session.Authority {
	return session.NewAuthority(testSecret, append([]session.Option{session.WithNowFunc(c.Now)}, opts...)...)
}

var userIdentity = session.Identity{SubjectID: "u-1", Email: "jane@example.com", Role: users.RoleUser}

func TestAuthority_IssueVerify(t *testing.T) {
	ctx := context.Background()
	c := &clock{now: issuedAt}
	a := newAuthority(c)

	token, err := a.Issue(userIdentity)
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      time.Time
		wantErr bool
	}{
		{name: "at issue", at: issuedAt},
		{name: "six days later", at: issuedAt.Add(6 * 24 * time.Hour)},
		{name: "one second before expiry", at: issuedAt.Add(session.DefaultTTL - time.Second)},
		{name: "exactly at expiry", at: issuedAt.Add(session.DefaultTTL), wantErr: true},
		{name: "eight days later", at: issuedAt.Add(8 * 24 * time.Hour), wantErr: true},
		{name: "before not-before", at: issuedAt.Add(-time.Second), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.now = tt.at
			id, err := a.Verify(ctx, token)
			if tt.wantErr {
				require.ErrorIs(t, err, apperrors.ErrInvalidSession)
				require.Equal(t, session.Identity{}, id)
				return
			}
			require.NoError(t, err)
			require.Equal(t, userIdentity, id)
		})
	}
}

func TestAuthority_Claims(t *testing.T) {
	c := &clock{now: issuedAt}
	a := newAuthority(c)

	token, err := a.Issue(userIdentity)
	require.NoError(t, err)

	claims := &session.Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	require.Equal(t, "u-1", claims.Subject)
	require.Equal(t, "jane@example.com", claims.Email)
	require.Equal(t, users.RoleUser, claims.Role)
	require.Equal(t, issuedAt, claims.IssuedAt.Time.UTC())
	require.Equal(t, issuedAt, claims.NotBefore.Time.UTC())
	require.Equal(t, issuedAt.Add(7*24*time.Hour), claims.ExpiresAt.Time.UTC())
	require.NotEmpty(t, claims.ID)

	other, err := a.Issue(userIdentity)
	require.NoError(t, err)
	otherClaims := &session.Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(other, otherClaims)
	require.NoError(t, err)
	require.NotEqual(t, claims.ID, otherClaims.ID)
}

func TestAuthority_Rejections(t *testing.T) {
	ctx := context.Background()
	c := &clock{now: issuedAt}
	a := newAuthority(c)

	token, err := a.Issue(userIdentity)
	require.NoError(t, err)

	t.Run("different secret", func(t *testing.T) {
		foreign := session.NewAuthority("another-secret", session.WithNowFunc(c.Now))
		_, err := foreign.Verify(ctx, token)
		require.ErrorIs(t, err, apperrors.ErrInvalidSession)
	})

	t.Run("role escalation in payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		payload, err := base64.RawURLEncoding.DecodeString(parts[1])
		require.NoError(t, err)
		escalated := strings.Replace(string(payload), `"role":"USER"`, `"role":"ADMIN"`, 1)
		require.NotEqual(t, string(payload), escalated)
		parts[1] = base64.RawURLEncoding.EncodeToString([]byte(escalated))

		_, err = a.Verify(ctx, strings.Join(parts, "."))
		require.ErrorIs(t, err, apperrors.ErrInvalidSession)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, tok := range []string{"", "abc", "a.b.c", "authenticated"} {
			_, err := a.Verify(ctx, tok)
			require.ErrorIs(t, err, apperrors.ErrInvalidSession, tok)
		}
	})

	t.Run("other hmac algorithm", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": "u-1", "role": "ADMIN", "jti": "x",
			"iat": issuedAt.Unix(), "nbf": issuedAt.Unix(), "exp": issuedAt.Add(time.Hour).Unix(),
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = a.Verify(ctx, tok)
		require.ErrorIs(t, err, apperrors.ErrInvalidSession)
	})

	t.Run("alg none", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": "u-1", "role": "ADMIN", "jti": "x",
			"iat": issuedAt.Unix(), "nbf": issuedAt.Unix(), "exp": issuedAt.Add(time.Hour).Unix(),
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = a.Verify(ctx, tok)
		require.ErrorIs(t, err, apperrors.ErrInvalidSession)
	})

	t.Run("unknown role", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": "u-1", "role": "ROOT", "jti": "x",
			"iat": issuedAt.Unix(), "nbf": issuedAt.Unix(), "exp": issuedAt.Add(time.Hour).Unix(),
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = a.Verify(ctx, tok)
		require.ErrorIs(t, err, apperrors.ErrInvalidSession)
	})

	t.Run("missing expiry", func(t *testing.T) {
		claims := jwt.MapClaims{"sub": "u-1", "role": "USER", "jti": "x", "nbf": issuedAt.Unix()}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = a.Verify(ctx, tok)
		require.ErrorIs(t, err, apperrors.ErrInvalidSession)
	})
}

func TestAuthority_Configuration(t *testing.T) {
	a := session.NewAuthority("")
	require.ErrorIs(t, a.Validate(), apperrors.ErrConfiguration)

	_, err := a.Issue(userIdentity)
	require.ErrorIs(t, err, apperrors.ErrConfiguration)

	_, err = a.Verify(context.Background(), "a.b.c")
	require.ErrorIs(t, err, apperrors.ErrInvalidSession)

	_, err = session.NewAuthority(testSecret).Issue(session.Identity{SubjectID: "u-1", Role: "ROOT"})
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestAuthority_WithTTL(t *testing.T) {
	c := &clock{now: issuedAt}
	a := newAuthority(c, session.WithTTL(time.Hour))
	require.Equal(t, time.Hour, a.TTL())

	token, err := a.Issue(userIdentity)
	require.NoError(t, err)

	c.now = issuedAt.Add(time.Hour)
	_, err = a.Verify(context.Background(), token)
	require.ErrorIs(t, err, apperrors.ErrInvalidSession)
}

func TestAuthority_Denylist(t *testing.T) {
	ctx := context.Background()
	c := &clock{now: issuedAt}

	t.Run("without denylist revoke keeps token valid", func(t *testing.T) {
		a := newAuthority(c)
		token, err := a.Issue(userIdentity)
		require.NoError(t, err)
		require.NoError(t, a.Revoke(ctx, token))
		_, err = a.Verify(ctx, token)
		require.NoError(t, err)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		deny := session.NewMemoryDenylist()
		a := newAuthority(c, session.WithDenylist(deny))
		token, err := a.Issue(userIdentity)
		require.NoError(t, err)
		other, err := a.Issue(userIdentity)
		require.NoError(t, err)

		require.NoError(t, a.Revoke(ctx, token))
		_, err = a.Verify(ctx, token)
		require.ErrorIs(t, err, apperrors.ErrInvalidSession)

		_, err = a.Verify(ctx, other)
		require.NoError(t, err)
	})

	t.Run("denylist failure rejects", func(t *testing.T) {
		a := newAuthority(c, session.WithDenylist(failingDenylist{}))
		token, err := a.Issue(userIdentity)
		require.NoError(t, err)
		_, err = a.Verify(ctx, token)
		require.ErrorIs(t, err, apperrors.ErrInvalidSession)
	})
}

type failingDenylist struct{}

func (failingDenylist) Revoke(context.Context, string, time.Time) error {
	return errors.New("unavailable")
}

func (failingDenylist) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("unavailable")
}

func TestMemoryDenylist_Cleanup(t *testing.T) {
	ctx := context.Background()
	d := session.NewMemoryDenylist()

	require.NoError(t, d.Revoke(ctx, "expired", time.Now().Add(-time.Minute)))
	require.NoError(t, d.Revoke(ctx, "live", time.Now().Add(time.Hour)))
	require.Equal(t, 2, d.Len())

	revoked, err := d.IsRevoked(ctx, "expired")
	require.NoError(t, err)
	require.False(t, revoked)

	d.Cleanup()
	require.Equal(t, 1, d.Len())

	revoked, err = d.IsRevoked(ctx, "live")
	require.NoError(t, err)
	require.True(t, revoked)
}
