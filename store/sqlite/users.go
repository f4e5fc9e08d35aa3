package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/jrsteele09/survey-admin/users"
	"github.com/pkg/errors"
)

var _ users.Repo = (*UserRepo)(nil)

type UserRepo struct {
	db *sqlx.DB
}

type userRow struct {
	ID           string       `db:"id"`
	Email        string       `db:"email"`
	Name         string       `db:"name"`
	PasswordHash string       `db:"password_hash"`
	Role         string       `db:"role"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
	LastLogin    sql.NullTime `db:"last_login"`
}

func (r userRow) toUser() *users.User {
	u := &users.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		Role:         users.Role(r.Role),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.LastLogin.Valid {
		u.LastLogin = r.LastLogin.Time
	}
	return u
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

const userColumns = `id, email, name, password_hash, role, created_at, updated_at, last_login`

func (ur *UserRepo) Create(ctx context.Context, user *users.User) error {
	user.Email = users.NormaliseEmail(user.Email)
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	_, err := ur.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.Name, user.PasswordHash, string(user.Role),
		user.CreatedAt.UTC(), user.UpdatedAt.UTC(), nullTime(user.LastLogin))
	if isUniqueViolation(err) {
		return apperrors.ErrAlreadyExists
	}
	return errors.Wrap(err, "insert user")
}

func (ur *UserRepo) Update(ctx context.Context, user *users.User) error {
	user.Email = users.NormaliseEmail(user.Email)
	res, err := ur.db.ExecContext(ctx,
		`UPDATE users SET email = ?, name = ?, password_hash = ?, role = ?, updated_at = ?, last_login = ? WHERE id = ?`,
		user.Email, user.Name, user.PasswordHash, string(user.Role), user.UpdatedAt.UTC(), nullTime(user.LastLogin), user.ID)
	if isUniqueViolation(err) {
		return apperrors.ErrAlreadyExists
	}
	if err != nil {
		return errors.Wrap(err, "update user")
	}
	return affectedOrNotFound(res)
}

func (ur *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := ur.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete user")
	}
	return affectedOrNotFound(res)
}

func (ur *UserRepo) get(ctx context.Context, where string, arg any) (*users.User, error) {
	var row userRow
	err := ur.db.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE `+where+` = ?`, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select user")
	}
	return row.toUser(), nil
}

func (ur *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return ur.get(ctx, "email", users.NormaliseEmail(email))
}

func (ur *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return ur.get(ctx, "id", id)
}

func (ur *UserRepo) List(ctx context.Context, offset, limit int) (users.UsersListResponse, error) {
	var total int
	if err := ur.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return users.UsersListResponse{}, errors.Wrap(err, "count users")
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = total
	}

	var rows []userRow
	if err := ur.db.SelectContext(ctx, &rows,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, email LIMIT ? OFFSET ?`, limit, offset); err != nil {
		return users.UsersListResponse{}, errors.Wrap(err, "list users")
	}

	resp := users.UsersListResponse{Users: make([]*users.User, 0, len(rows)), Total: total, Offset: offset, Limit: limit}
	for _, r := range rows {
		resp.Users = append(resp.Users, r.toUser())
	}
	return resp, nil
}

func (ur *UserRepo) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := ur.db.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return errors.Wrap(err, "set last login")
	}
	return affectedOrNotFound(res)
}
