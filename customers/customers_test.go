package customers_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/survey-admin/customers"
	fakecustomerrepo "github.com/jrsteele09/survey-admin/customers/repofake"
	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/jrsteele09/survey-admin/internal/utils"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, now *time.Time) *customers.Service {
	t.Helper()
	svc, err := customers.NewService(fakecustomerrepo.NewFakeCustomerRepo(),
		customers.WithNowTime(func() time.Time { return *now }))
	require.NoError(t, err)
	return svc
}

func TestService_CRUD(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	svc := newService(t, &now)

	acme, err := svc.Create(ctx, customers.NewCustomer{Name: " Acme ", Email: "Ops@Acme.io", Company: "Acme Ltd"})
	require.NoError(t, err)
	require.NotEmpty(t, acme.ID)
	require.Equal(t, "Acme", acme.Name)
	require.Equal(t, "ops@acme.io", acme.Email)
	require.Empty(t, acme.Templates)

	now = now.Add(time.Minute)
	_, err = svc.Create(ctx, customers.NewCustomer{Name: "Beta"})
	require.NoError(t, err)

	t.Run("validation", func(t *testing.T) {
		_, err := svc.Create(ctx, customers.NewCustomer{Name: "  "})
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
		_, err = svc.Create(ctx, customers.NewCustomer{Name: "X", Email: "not-an-email"})
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})

	t.Run("list ordered by creation", func(t *testing.T) {
		list, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "Acme", list[0].Name)
		require.Equal(t, "Beta", list[1].Name)
	})

	t.Run("partial update", func(t *testing.T) {
		updated, err := svc.Update(ctx, acme.ID, customers.CustomerUpdate{Company: utils.Ptr("Acme Group")})
		require.NoError(t, err)
		require.Equal(t, "Acme Group", updated.Company)
		require.Equal(t, "Acme", updated.Name)
		require.Equal(t, now, updated.UpdatedAt)
	})

	t.Run("missing customer", func(t *testing.T) {
		_, err := svc.Get(ctx, "nope")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
		_, err = svc.Update(ctx, "nope", customers.CustomerUpdate{})
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, acme.ID))
		require.ErrorIs(t, svc.Delete(ctx, acme.ID), apperrors.ErrNotFound)
	})
}

func TestService_Templates(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	svc := newService(t, &now)

	c, err := svc.Create(ctx, customers.NewCustomer{Name: "Acme"})
	require.NoError(t, err)

	assignedAt := now
	c, err = svc.AssignTemplate(ctx, c.ID, "form-1")
	require.NoError(t, err)
	require.Equal(t, []customers.Assignment{{FormID: "form-1", AssignedAt: assignedAt}}, c.Templates)

	now = now.Add(time.Hour)
	c, err = svc.AssignTemplate(ctx, c.ID, "form-1")
	require.NoError(t, err)
	require.Len(t, c.Templates, 1)
	require.Equal(t, assignedAt, c.Templates[0].AssignedAt)

	c, err = svc.AssignTemplate(ctx, c.ID, "form-2")
	require.NoError(t, err)
	require.Len(t, c.Templates, 2)
	require.True(t, c.HasTemplate("form-2"))

	_, err = svc.AssignTemplate(ctx, c.ID, " ")
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	c, err = svc.UnassignTemplate(ctx, c.ID, "form-1")
	require.NoError(t, err)
	require.False(t, c.HasTemplate("form-1"))
	require.Len(t, c.Templates, 1)

	_, err = svc.UnassignTemplate(ctx, c.ID, "form-1")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	stored, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, c.Templates, stored.Templates)
}
