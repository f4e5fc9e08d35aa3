package users

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Service holds the account rules on top of a Repo.
type Service struct {
	repo    Repo
	nowTime func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(repo Repo, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[users NewService] repo is required")
	}
	s := &Service{repo: repo, nowTime: time.Now}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// NewUser is the input for Create.
type NewUser struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// UserUpdate changes only the fields that are set.
type UserUpdate struct {
	Name     *string `json:"name,omitempty"`
	Role     *Role   `json:"role,omitempty"`
	Password *string `json:"password,omitempty"`
}

var (
	dummyHashMu sync.Mutex
	dummyHash   string
)

// timingHash is compared against when the email is unknown so that both
// failure paths pay the bcrypt cost. A failed build is logged and retried on
// the next call.
func timingHash() (string, error) {
	dummyHashMu.Lock()
	defer dummyHashMu.Unlock()
	if dummyHash != "" {
		return dummyHash, nil
	}
	hash, err := HashPassword("survey-admin-timing-placeholder")
	if err != nil {
		return "", err
	}
	dummyHash = hash
	return dummyHash, nil
}

// Authenticate verifies an email/password pair. Unknown email and wrong
// password both return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			hash, err := timingHash()
			if err != nil {
				log.Error().Err(err).Msg("failed to build timing hash; unknown-email logins are not time equalised")
				return nil, apperrors.ErrInvalidCredentials
			}
			CheckPasswordHash(password, hash)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "[Authenticate] GetByEmail")
	}
	if !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.nowTime()
	if err := s.repo.SetLastLogin(ctx, user.ID, now); err != nil {
		return nil, errors.Wrap(err, "[Authenticate] SetLastLogin")
	}
	user.LastLogin = now
	return user, nil
}

func (s *Service) Create(ctx context.Context, nu NewUser) (*User, error) {
	email := NormaliseEmail(nu.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", apperrors.ErrInvalidRequest)
	}
	if nu.Role == "" {
		nu.Role = RoleUser
	}
	if !nu.Role.Valid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, nu.Role)
	}
	if err := ValidatePasswordStrength(nu.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrWeakPassword, err)
	}

	hash, err := HashPassword(nu.Password)
	if err != nil {
		return nil, errors.Wrap(err, "[Create] HashPassword")
	}

	now := s.nowTime()
	user := &User{
		Email:        email,
		Name:         strings.TrimSpace(nu.Name),
		PasswordHash: hash,
		Role:         nu.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "[Create] repo.Create")
	}
	return user, nil
}

// Update applies a partial change. A role change only reaches the caller's
// session after they log in again.
func (s *Service) Update(ctx context.Context, id string, upd UserUpdate) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "[Update] GetByID")
	}

	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Role != nil {
		if !upd.Role.Valid() {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, *upd.Role)
		}
		user.Role = *upd.Role
	}
	if upd.Password != nil {
		if err := ValidatePasswordStrength(*upd.Password); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrWeakPassword, err)
		}
		hash, err := HashPassword(*upd.Password)
		if err != nil {
			return nil, errors.Wrap(err, "[Update] HashPassword")
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = s.nowTime()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(err, "[Update] repo.Update")
	}
	return user, nil
}

// Delete removes targetID on behalf of actorID. Self deletion is refused.
func (s *Service) Delete(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return apperrors.ErrSelfDeletion
	}
	if err := s.repo.Delete(ctx, targetID); err != nil {
		return errors.Wrap(err, "[Delete] repo.Delete")
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, offset, limit int) (UsersListResponse, error) {
	return s.repo.List(ctx, offset, limit)
}

// EnsureAdmin creates the bootstrap administrator if no account uses email.
// When password is empty one is generated and returned; it is returned only
// on first creation.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (generatedPassword string, err error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return "", nil
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return "", errors.Wrap(err, "[EnsureAdmin] GetByEmail")
	}

	if password == "" {
		if password, err = generatePassword(); err != nil {
			return "", err
		}
		generatedPassword = password
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", errors.Wrap(err, "[EnsureAdmin] HashPassword")
	}
	now := s.nowTime()
	if err := s.repo.Create(ctx, &User{
		Email:        email,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return "", errors.Wrap(err, "[EnsureAdmin] repo.Create")
	}
	return generatedPassword, nil
}

// generatePassword satisfies ValidatePasswordStrength by construction.
func generatePassword() (string, error) {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	return "Sa1" + base64.RawURLEncoding.EncodeToString(b), nil
}
