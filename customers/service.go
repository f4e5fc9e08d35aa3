package customers

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/pkg/errors"
)

type Service struct {
	repo    Repo
	nowTime func() time.Time
}

type ServiceOption func(*Service)

func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(repo Repo, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[customers NewService] repo is required")
	}
	s := &Service{repo: repo, nowTime: time.Now}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func validateEmail(email string) error {
	if email != "" && !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email %q", apperrors.ErrInvalidRequest, email)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, nc NewCustomer) (*Customer, error) {
	name := strings.TrimSpace(nc.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrInvalidRequest)
	}
	email := strings.ToLower(strings.TrimSpace(nc.Email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	now := s.nowTime()
	c := &Customer{
		Name:      name,
		Email:     email,
		Company:   strings.TrimSpace(nc.Company),
		Templates: []Assignment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, errors.Wrap(err, "[Create] repo.Create")
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, upd CustomerUpdate) (*Customer, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "[Update] Get")
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", apperrors.ErrInvalidRequest)
		}
		c.Name = name
	}
	if upd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*upd.Email))
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		c.Email = email
	}
	if upd.Company != nil {
		c.Company = strings.TrimSpace(*upd.Company)
	}
	c.UpdatedAt = s.nowTime()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, errors.Wrap(err, "[Update] repo.Update")
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Customer, error) {
	return s.repo.List(ctx)
}

// AssignTemplate is idempotent: assigning an already assigned form keeps
// the original AssignedAt.
func (s *Service) AssignTemplate(ctx context.Context, id, formID string) (*Customer, error) {
	formID = strings.TrimSpace(formID)
	if formID == "" {
		return nil, fmt.Errorf("%w: form id is required", apperrors.ErrInvalidRequest)
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "[AssignTemplate] Get")
	}
	if c.HasTemplate(formID) {
		return c, nil
	}
	now := s.nowTime()
	c.Templates = append(c.Templates, Assignment{FormID: formID, AssignedAt: now})
	c.UpdatedAt = now
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, errors.Wrap(err, "[AssignTemplate] Update")
	}
	return c, nil
}

func (s *Service) UnassignTemplate(ctx context.Context, id, formID string) (*Customer, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "[UnassignTemplate] Get")
	}
	kept := c.Templates[:0]
	for _, a := range c.Templates {
		if a.FormID != formID {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(c.Templates) {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "form %q is not assigned", formID)
	}
	c.Templates = kept
	c.UpdatedAt = s.nowTime()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, errors.Wrap(err, "[UnassignTemplate] Update")
	}
	return c, nil
}
