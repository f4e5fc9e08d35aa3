package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jrsteele09/survey-admin/customers"
	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/pkg/errors"
)

var _ customers.Repo = (*CustomerRepo)(nil)

type CustomerRepo struct {
	db *sqlx.DB
}

type customerRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Company   string    `db:"company"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type templateRow struct {
	CustomerID string    `db:"customer_id"`
	FormID     string    `db:"form_id"`
	AssignedAt time.Time `db:"assigned_at"`
}

func (r customerRow) toCustomer() *customers.Customer {
	return &customers.Customer{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Company:   r.Company,
		Templates: []customers.Assignment{},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func replaceTemplates(ctx context.Context, tx *sqlx.Tx, c *customers.Customer) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM customer_templates WHERE customer_id = ?`, c.ID); err != nil {
		return errors.Wrap(err, "clear templates")
	}
	for i, a := range c.Templates {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO customer_templates (customer_id, form_id, assigned_at, position) VALUES (?, ?, ?, ?)`,
			c.ID, a.FormID, a.AssignedAt.UTC(), i); err != nil {
			return errors.Wrapf(err, "insert template %s", a.FormID)
		}
	}
	return nil
}

func (cr *CustomerRepo) Create(ctx context.Context, c *customers.Customer) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return withTx(ctx, cr.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO customers (id, name, email, company, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Email, c.Company, c.CreatedAt.UTC(), c.UpdatedAt.UTC())
		if isUniqueViolation(err) {
			return apperrors.ErrAlreadyExists
		}
		if err != nil {
			return errors.Wrap(err, "insert customer")
		}
		return replaceTemplates(ctx, tx, c)
	})
}

func (cr *CustomerRepo) Update(ctx context.Context, c *customers.Customer) error {
	return withTx(ctx, cr.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE customers SET name = ?, email = ?, company = ?, updated_at = ? WHERE id = ?`,
			c.Name, c.Email, c.Company, c.UpdatedAt.UTC(), c.ID)
		if err != nil {
			return errors.Wrap(err, "update customer")
		}
		if err := affectedOrNotFound(res); err != nil {
			return err
		}
		return replaceTemplates(ctx, tx, c)
	})
}

func (cr *CustomerRepo) Delete(ctx context.Context, id string) error {
	res, err := cr.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete customer")
	}
	return affectedOrNotFound(res)
}

func (cr *CustomerRepo) Get(ctx context.Context, id string) (*customers.Customer, error) {
	var row customerRow
	err := cr.db.GetContext(ctx, &row,
		`SELECT id, name, email, company, created_at, updated_at FROM customers WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select customer")
	}

	var templates []templateRow
	if err := cr.db.SelectContext(ctx, &templates,
		`SELECT customer_id, form_id, assigned_at FROM customer_templates WHERE customer_id = ? ORDER BY position`, id); err != nil {
		return nil, errors.Wrap(err, "select templates")
	}

	c := row.toCustomer()
	for _, t := range templates {
		c.Templates = append(c.Templates, customers.Assignment{FormID: t.FormID, AssignedAt: t.AssignedAt})
	}
	return c, nil
}

func (cr *CustomerRepo) List(ctx context.Context) ([]*customers.Customer, error) {
	var rows []customerRow
	if err := cr.db.SelectContext(ctx, &rows,
		`SELECT id, name, email, company, created_at, updated_at FROM customers ORDER BY created_at, name`); err != nil {
		return nil, errors.Wrap(err, "list customers")
	}

	var templates []templateRow
	if err := cr.db.SelectContext(ctx, &templates,
		`SELECT customer_id, form_id, assigned_at FROM customer_templates ORDER BY customer_id, position`); err != nil {
		return nil, errors.Wrap(err, "list templates")
	}

	list := make([]*customers.Customer, 0, len(rows))
	byID := make(map[string]*customers.Customer, len(rows))
	for _, r := range rows {
		c := r.toCustomer()
		list = append(list, c)
		byID[c.ID] = c
	}
	for _, t := range templates {
		if c, ok := byID[t.CustomerID]; ok {
			c.Templates = append(c.Templates, customers.Assignment{FormID: t.FormID, AssignedAt: t.AssignedAt})
		}
	}
	return list, nil
}
