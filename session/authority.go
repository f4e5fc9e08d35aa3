package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultTTL is the lifetime of an issued session.
const DefaultTTL = 7 * 24 * time.Hour

// Authority issues and verifies session tokens.
type Authority struct {
	signer   Signer
	hasKey   bool
	ttl      time.Duration
	nowFunc  func() time.Time
	denylist Denylist
}

// Option defines a function type to modify the Authority instance.
type Option func(*Authority)

// WithNowFunc sets the clock used for issuing and validating (primarily for testing)
func WithNowFunc(nowFunc func() time.Time) Option {
	return func(a *Authority) {
		a.nowFunc = nowFunc
	}
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(a *Authority) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// WithDenylist enables server-side revocation. Without one, sessions are
// stateless and Revoke only has effect on the client cookie.
func WithDenylist(d Denylist) Option {
	return func(a *Authority) {
		a.denylist = d
	}
}

// NewAuthority never fails; an empty secret surfaces from Issue and Verify.
func NewAuthority(secret string, options ...Option) *Authority {
	a := &Authority{
		signer:  NewHMACSigner(secret),
		hasKey:  secret != "",
		ttl:     DefaultTTL,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Validate reports a missing signing secret.
func (a *Authority) Validate() error {
	if !a.hasKey {
		return errors.Wrap(apperrors.ErrConfiguration, "session signing secret is not set")
	}
	return nil
}

// TTL is the lifetime given to issued tokens.
func (a *Authority) TTL() time.Duration {
	return a.ttl
}

// Issue signs a session token for id carrying sub, email, role, iat, nbf,
// exp and a fresh jti.
func (a *Authority) Issue(id Identity) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	if id.SubjectID == "" || !id.Role.Valid() {
		return "", errors.Wrapf(apperrors.ErrInvalidRequest, "cannot issue session for %q with role %q", id.SubjectID, id.Role)
	}

	now := a.nowFunc()
	claims := Claims{
		Email: id.Email,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			ID:        uuid.New().String(),
		},
	}
	return a.signer.Sign(claims)
}

// Verify returns the identity in token. Every failure is ErrInvalidSession.
func (a *Authority) Verify(ctx context.Context, token string) (Identity, error) {
	claims, err := a.parse(token)
	if err != nil {
		return Identity{}, err
	}

	if a.denylist != nil {
		revoked, err := a.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			log.Warn().Err(err).Msg("session denylist lookup failed")
			return Identity{}, apperrors.ErrInvalidSession
		}
		if revoked {
			return Identity{}, apperrors.ErrInvalidSession
		}
	}

	return Identity{SubjectID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}

// Revoke adds a still-valid token to the denylist until it would have
// expired. It is a no-op when no denylist is configured or the token is
// already invalid.
func (a *Authority) Revoke(ctx context.Context, token string) error {
	if a.denylist == nil {
		return nil
	}
	claims, err := a.parse(token)
	if err != nil {
		return nil
	}
	if err := a.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return errors.Wrap(err, "[Revoke] denylist")
	}
	return nil
}

func (a *Authority) parse(token string) (*Claims, error) {
	if !a.hasKey {
		return nil, apperrors.ErrInvalidSession
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, a.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{a.signer.GetSigningMethod().Alg()}),
		jwt.WithTimeFunc(a.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, apperrors.ErrInvalidSession
	}
	if claims.Subject == "" || claims.ID == "" || claims.NotBefore == nil || !claims.Role.Valid() {
		return nil, apperrors.ErrInvalidSession
	}
	return claims, nil
}
