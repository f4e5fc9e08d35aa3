package credentials_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/survey-admin/credentials"
	fakecredentialsrepo "github.com/jrsteele09/survey-admin/credentials/repofake"
	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/jrsteele09/survey-admin/vault"
	"github.com/stretchr/testify/require"
)

var testKey = strings.Repeat("ab", vault.KeySize)

func TestKeysRequest_Decode(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantForms credentials.Update
		wantLLM   credentials.Update
		wantErr   bool
	}{
		{name: "empty object", body: `{}`},
		{name: "set one", body: `{"formsApiKey":"tf_123"}`, wantForms: credentials.SetTo("tf_123")},
		{name: "null clears", body: `{"llmApiKey":null}`, wantLLM: credentials.Clear()},
		{name: "empty string clears", body: `{"formsApiKey":""}`, wantForms: credentials.Clear()},
		{name: "both", body: `{"formsApiKey":"a","llmApiKey":"b"}`, wantForms: credentials.SetTo("a"), wantLLM: credentials.SetTo("b")},
		{name: "number rejected", body: `{"formsApiKey":42}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req credentials.KeysRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantForms, req.FormsAPIKey)
			require.Equal(t, tt.wantLLM, req.LLMAPIKey)
		})
	}
}

type fixture struct {
	repo *fakecredentialsrepo.FakeCredentialsRepo
	svc  *credentials.Service
}

func newFixture(t *testing.T, opts ...credentials.ServiceOption) fixture {
	t.Helper()
	repo := fakecredentialsrepo.NewFakeCredentialsRepo()
	v := vault.New(testKey)
	require.NoError(t, v.Validate())
	svc, err := credentials.NewService(repo, v, opts...)
	require.NoError(t, err)
	return fixture{repo: repo, svc: svc}
}

func TestService_Apply(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(t, credentials.WithNowTime(func() time.Time { return now }))

	t.Run("unchanged only writes nothing", func(t *testing.T) {
		require.NoError(t, f.svc.Apply(ctx, "u-1", map[credentials.Integration]credentials.Update{
			credentials.IntegrationForms: {},
		}))
		_, err := f.repo.Get(ctx, "u-1")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("set stores ciphertext only", func(t *testing.T) {
		require.NoError(t, f.svc.Apply(ctx, "u-1", map[credentials.Integration]credentials.Update{
			credentials.IntegrationForms: credentials.SetTo("tf_secret"),
			credentials.IntegrationLLM:   credentials.SetTo("sk_secret"),
		}))
		rec, err := f.repo.Get(ctx, "u-1")
		require.NoError(t, err)
		require.Len(t, rec.Secrets, 2)
		require.Equal(t, now, rec.UpdatedAt)
		require.NotContains(t, string(rec.Secrets[credentials.IntegrationForms].Ciphertext), "tf_secret")
	})

	t.Run("unchanged slot is byte identical", func(t *testing.T) {
		before, err := f.repo.Get(ctx, "u-1")
		require.NoError(t, err)

		require.NoError(t, f.svc.Apply(ctx, "u-1", map[credentials.Integration]credentials.Update{
			credentials.IntegrationForms: {},
			credentials.IntegrationLLM:   credentials.SetTo("sk_rotated"),
		}))

		after, err := f.repo.Get(ctx, "u-1")
		require.NoError(t, err)
		require.Equal(t, before.Secrets[credentials.IntegrationForms], after.Secrets[credentials.IntegrationForms])
		require.NotEqual(t, before.Secrets[credentials.IntegrationLLM], after.Secrets[credentials.IntegrationLLM])

		key, src, err := f.svc.Resolve(ctx, "u-1", credentials.IntegrationLLM)
		require.NoError(t, err)
		require.Equal(t, "sk_rotated", key)
		require.Equal(t, credentials.SourceUser, src)
	})

	t.Run("cleared removes slot", func(t *testing.T) {
		require.NoError(t, f.svc.Apply(ctx, "u-1", map[credentials.Integration]credentials.Update{
			credentials.IntegrationLLM: credentials.Clear(),
		}))
		status, err := f.svc.Status(ctx, "u-1")
		require.NoError(t, err)
		require.Equal(t, map[credentials.Integration]bool{
			credentials.IntegrationForms: true,
			credentials.IntegrationLLM:   false,
		}, status)
	})

	t.Run("unknown integration", func(t *testing.T) {
		err := f.svc.Apply(ctx, "u-1", map[credentials.Integration]credentials.Update{
			"mailer": credentials.SetTo("x"),
		})
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})
}

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, credentials.WithServerKey(credentials.IntegrationForms, "server-forms-key"))

	t.Run("server fallback", func(t *testing.T) {
		key, src, err := f.svc.Resolve(ctx, "u-2", credentials.IntegrationForms)
		require.NoError(t, err)
		require.Equal(t, "server-forms-key", key)
		require.Equal(t, credentials.SourceServer, src)
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, _, err := f.svc.Resolve(ctx, "u-2", credentials.IntegrationLLM)
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("user key wins", func(t *testing.T) {
		require.NoError(t, f.svc.Apply(ctx, "u-2", map[credentials.Integration]credentials.Update{
			credentials.IntegrationForms: credentials.SetTo("user-forms-key"),
		}))
		key, src, err := f.svc.Resolve(ctx, "u-2", credentials.IntegrationForms)
		require.NoError(t, err)
		require.Equal(t, "user-forms-key", key)
		require.Equal(t, credentials.SourceUser, src)
	})

	t.Run("tampered user key falls back", func(t *testing.T) {
		rec, err := f.repo.Get(ctx, "u-2")
		require.NoError(t, err)
		secret := rec.Secrets[credentials.IntegrationForms]
		tag := append([]byte(nil), secret.Tag...)
		tag[0] ^= 0x01
		secret.Tag = tag
		require.NoError(t, f.repo.PutSecret(ctx, "u-2", credentials.IntegrationForms, secret, time.Now()))

		key, src, err := f.svc.Resolve(ctx, "u-2", credentials.IntegrationForms)
		require.NoError(t, err)
		require.Equal(t, "server-forms-key", key)
		require.Equal(t, credentials.SourceServer, src)

		status, err := f.svc.Status(ctx, "u-2")
		require.NoError(t, err)
		require.False(t, status[credentials.IntegrationForms])
	})

	t.Run("delete user", func(t *testing.T) {
		require.NoError(t, f.svc.DeleteUser(ctx, "u-2"))
		_, err := f.repo.Get(ctx, "u-2")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

// rendezvousRepo holds the first two repository calls until both have
// arrived so concurrent Apply calls overlap.
type rendezvousRepo struct {
	credentials.Repo
	mu      sync.Mutex
	arrived int
	release chan struct{}
}

func newRendezvousRepo(inner credentials.Repo) *rendezvousRepo {
	return &rendezvousRepo{Repo: inner, release: make(chan struct{})}
}

func (r *rendezvousRepo) wait() {
	r.mu.Lock()
	r.arrived++
	if r.arrived == 2 {
		close(r.release)
	}
	r.mu.Unlock()
	<-r.release
}

func (r *rendezvousRepo) Get(ctx context.Context, userID string) (*credentials.Record, error) {
	r.wait()
	return r.Repo.Get(ctx, userID)
}

func (r *rendezvousRepo) PutSecret(ctx context.Context, userID string, i credentials.Integration, secret vault.EncryptedSecret, updatedAt time.Time) error {
	r.wait()
	return r.Repo.PutSecret(ctx, userID, i, secret, updatedAt)
}

func (r *rendezvousRepo) DeleteSecret(ctx context.Context, userID string, i credentials.Integration) error {
	r.wait()
	return r.Repo.DeleteSecret(ctx, userID, i)
}

func TestService_ConcurrentApplyKeepsOtherSlots(t *testing.T) {
	ctx := context.Background()
	repo := newRendezvousRepo(fakecredentialsrepo.NewFakeCredentialsRepo())
	svc, err := credentials.NewService(repo, vault.New(testKey))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	updates := []map[credentials.Integration]credentials.Update{
		{credentials.IntegrationForms: credentials.SetTo("tf_concurrent")},
		{credentials.IntegrationLLM: credentials.SetTo("sk_concurrent")},
	}
	for n, upd := range updates {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[n] = svc.Apply(ctx, "u-4", upd)
		}()
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	status, err := svc.Status(ctx, "u-4")
	require.NoError(t, err)
	require.Equal(t, map[credentials.Integration]bool{
		credentials.IntegrationForms: true,
		credentials.IntegrationLLM:   true,
	}, status)

	key, _, err := svc.Resolve(ctx, "u-4", credentials.IntegrationForms)
	require.NoError(t, err)
	require.Equal(t, "tf_concurrent", key)
}

func TestService_MisconfiguredVault(t *testing.T) {
	ctx := context.Background()
	svc, err := credentials.NewService(fakecredentialsrepo.NewFakeCredentialsRepo(), vault.New(""))
	require.NoError(t, err)

	err = svc.Apply(ctx, "u-3", map[credentials.Integration]credentials.Update{
		credentials.IntegrationForms: credentials.SetTo("key"),
	})
	require.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestParseIntegration(t *testing.T) {
	i, err := credentials.ParseIntegration("forms")
	require.NoError(t, err)
	require.Equal(t, credentials.IntegrationForms, i)

	_, err = credentials.ParseIntegration("FORMS")
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}
