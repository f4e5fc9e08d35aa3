package credentials

import (
	"context"
	"time"

	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/jrsteele09/survey-admin/vault"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Service encrypts keys on the way into a Repo and decides which key a
// provider call should use.
type Service struct {
	repo       Repo
	vault      *vault.Vault
	serverKeys map[Integration]string
	nowTime    func() time.Time
}

type ServiceOption func(*Service)

// WithServerKey registers the server-wide fallback key for an integration.
// An empty key is ignored.
func WithServerKey(i Integration, key string) ServiceOption {
	return func(s *Service) {
		if key != "" {
			s.serverKeys[i] = key
		}
	}
}

func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(repo Repo, v *vault.Vault, options ...ServiceOption) (*Service, error) {
	if repo == nil || v == nil {
		return nil, errors.New("[credentials NewService] repo and vault are required")
	}
	s := &Service{
		repo:       repo,
		vault:      v,
		serverKeys: make(map[Integration]string),
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func (s *Service) load(ctx context.Context, userID string) (*Record, error) {
	rec, err := s.repo.Get(ctx, userID)
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return &Record{UserID: userID, Secrets: make(map[Integration]vault.EncryptedSecret)}, nil
	}
	if err != nil {
		return nil, err
	}
	if rec.Secrets == nil {
		rec.Secrets = make(map[Integration]vault.EncryptedSecret)
	}
	return rec, nil
}

// Apply encrypts Set values, removes Cleared slots and leaves Unchanged
// slots exactly as stored. Nothing is written when every update is Unchanged
// or when any value fails to encrypt.
func (s *Service) Apply(ctx context.Context, userID string, updates map[Integration]Update) error {
	for i := range updates {
		if !i.Valid() {
			return apperrors.Wrapf(apperrors.ErrInvalidRequest, "unknown integration %q", i)
		}
	}

	encrypted := make(map[Integration]vault.EncryptedSecret)
	for i, u := range updates {
		if u.Kind != Set {
			continue
		}
		secret, err := s.vault.Encrypt(u.Value)
		if err != nil {
			return errors.Wrapf(err, "[Apply] encrypt %s key", i)
		}
		encrypted[i] = secret
	}

	now := s.nowTime()
	for _, i := range Integrations {
		switch updates[i].Kind {
		case Set:
			if err := s.repo.PutSecret(ctx, userID, i, encrypted[i], now); err != nil {
				return errors.Wrapf(err, "[Apply] PutSecret %s", i)
			}
		case Cleared:
			if err := s.repo.DeleteSecret(ctx, userID, i); err != nil {
				return errors.Wrapf(err, "[Apply] DeleteSecret %s", i)
			}
		}
	}
	return nil
}

// userKey returns the decrypted per-user key, or "" when there is none or it
// no longer decrypts.
func (s *Service) userKey(rec *Record, i Integration) string {
	secret, ok := rec.Secrets[i]
	if !ok || secret.IsZero() {
		return ""
	}
	key, err := s.vault.Decrypt(secret)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrConfiguration) {
			log.Error().Err(err).Msg("credential vault is misconfigured")
		} else {
			log.Warn().Str("user_id", rec.UserID).Str("integration", string(i)).Msg("stored key failed to decrypt")
		}
		return ""
	}
	return key
}

// Status reports which integrations have a usable per-user key.
func (s *Service) Status(ctx context.Context, userID string) (map[Integration]bool, error) {
	rec, err := s.load(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "[Status] load")
	}
	status := make(map[Integration]bool, len(Integrations))
	for _, i := range Integrations {
		status[i] = s.userKey(rec, i) != ""
	}
	return status, nil
}

// HasServerKey reports whether a server-wide fallback is configured.
func (s *Service) HasServerKey(i Integration) bool {
	return s.serverKeys[i] != ""
}

// Resolve picks the key for a provider call: the user's own key, then the
// server-wide key, otherwise ErrNotFound.
func (s *Service) Resolve(ctx context.Context, userID string, i Integration) (string, Source, error) {
	if !i.Valid() {
		return "", "", apperrors.Wrapf(apperrors.ErrInvalidRequest, "unknown integration %q", i)
	}
	rec, err := s.load(ctx, userID)
	if err != nil {
		return "", "", errors.Wrap(err, "[Resolve] load")
	}
	if key := s.userKey(rec, i); key != "" {
		return key, SourceUser, nil
	}
	if key := s.serverKeys[i]; key != "" {
		return key, SourceServer, nil
	}
	return "", "", apperrors.Wrapf(apperrors.ErrNotFound, "no %s key configured", i)
}

// DeleteUser drops every stored key for userID.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}
