package fakecredentialsrepo

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/survey-admin/credentials"
	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/jrsteele09/survey-admin/vault"
)

var _ credentials.Repo = (*FakeCredentialsRepo)(nil)

type FakeCredentialsRepo struct {
	records map[string]*credentials.Record
	lock    sync.RWMutex
}

func NewFakeCredentialsRepo() *FakeCredentialsRepo {
	return &FakeCredentialsRepo{records: make(map[string]*credentials.Record)}
}

func (r *FakeCredentialsRepo) Get(_ context.Context, userID string) (*credentials.Record, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	rec, ok := r.records[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return rec.Clone(), nil
}

func (r *FakeCredentialsRepo) PutSecret(_ context.Context, userID string, i credentials.Integration, secret vault.EncryptedSecret, updatedAt time.Time) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	rec, ok := r.records[userID]
	if !ok {
		rec = &credentials.Record{UserID: userID, Secrets: make(map[credentials.Integration]vault.EncryptedSecret)}
		r.records[userID] = rec
	}
	rec.Secrets[i] = vault.EncryptedSecret{
		Ciphertext: append([]byte(nil), secret.Ciphertext...),
		Nonce:      append([]byte(nil), secret.Nonce...),
		Tag:        append([]byte(nil), secret.Tag...),
	}
	if updatedAt.After(rec.UpdatedAt) {
		rec.UpdatedAt = updatedAt
	}
	return nil
}

func (r *FakeCredentialsRepo) DeleteSecret(_ context.Context, userID string, i credentials.Integration) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	rec, ok := r.records[userID]
	if !ok {
		return nil
	}
	delete(rec.Secrets, i)
	if len(rec.Secrets) == 0 {
		delete(r.records, userID)
	}
	return nil
}

func (r *FakeCredentialsRepo) Delete(_ context.Context, userID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.records, userID)
	return nil
}
