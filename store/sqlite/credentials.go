package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jrsteele09/survey-admin/credentials"
	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/jrsteele09/survey-admin/vault"
	"github.com/pkg/errors"
)

var _ credentials.Repo = (*CredentialsRepo)(nil)

// CredentialsRepo stores one row per user and integration. Only the three
// EncryptedSecret fields are persisted. Writes never touch other slots.
type CredentialsRepo struct {
	db *sqlx.DB
}

type credentialRow struct {
	UserID      string    `db:"user_id"`
	Integration string    `db:"integration"`
	Ciphertext  []byte    `db:"ciphertext"`
	Nonce       []byte    `db:"nonce"`
	Tag         []byte    `db:"tag"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (cr *CredentialsRepo) Get(ctx context.Context, userID string) (*credentials.Record, error) {
	var rows []credentialRow
	if err := cr.db.SelectContext(ctx, &rows,
		`SELECT user_id, integration, ciphertext, nonce, tag, updated_at FROM user_credentials WHERE user_id = ?`, userID); err != nil {
		return nil, errors.Wrap(err, "select credentials")
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrNotFound
	}

	rec := &credentials.Record{UserID: userID, Secrets: make(map[credentials.Integration]vault.EncryptedSecret, len(rows))}
	for _, r := range rows {
		rec.Secrets[credentials.Integration(r.Integration)] = vault.EncryptedSecret{
			Ciphertext: r.Ciphertext,
			Nonce:      r.Nonce,
			Tag:        r.Tag,
		}
		if r.UpdatedAt.After(rec.UpdatedAt) {
			rec.UpdatedAt = r.UpdatedAt
		}
	}
	return rec, nil
}

// PutSecret inserts or replaces a single integration slot.
func (cr *CredentialsRepo) PutSecret(ctx context.Context, userID string, i credentials.Integration, secret vault.EncryptedSecret, updatedAt time.Time) error {
	_, err := cr.db.ExecContext(ctx,
		`INSERT INTO user_credentials (user_id, integration, ciphertext, nonce, tag, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, integration) DO UPDATE SET
		   ciphertext = excluded.ciphertext,
		   nonce = excluded.nonce,
		   tag = excluded.tag,
		   updated_at = excluded.updated_at`,
		userID, string(i), secret.Ciphertext, secret.Nonce, secret.Tag, updatedAt.UTC())
	return errors.Wrapf(err, "upsert %s credential", i)
}

func (cr *CredentialsRepo) DeleteSecret(ctx context.Context, userID string, i credentials.Integration) error {
	_, err := cr.db.ExecContext(ctx, `DELETE FROM user_credentials WHERE user_id = ? AND integration = ?`, userID, string(i))
	return errors.Wrapf(err, "delete %s credential", i)
}

func (cr *CredentialsRepo) Delete(ctx context.Context, userID string) error {
	_, err := cr.db.ExecContext(ctx, `DELETE FROM user_credentials WHERE user_id = ?`, userID)
	return errors.Wrap(err, "delete credentials")
}
