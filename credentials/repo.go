package credentials

import (
	"context"
	"time"

	"github.com/jrsteele09/survey-admin/vault"
)

// Repo stores encrypted keys per user and integration. Get returns
// ErrNotFound when the user has no stored key. Writes touch a single slot so
// concurrent updates to different integrations never overwrite each other.
type Repo interface {
	Get(ctx context.Context, userID string) (*Record, error)
	PutSecret(ctx context.Context, userID string, i Integration, secret vault.EncryptedSecret, updatedAt time.Time) error
	DeleteSecret(ctx context.Context, userID string, i Integration) error
	Delete(ctx context.Context, userID string) error
}
