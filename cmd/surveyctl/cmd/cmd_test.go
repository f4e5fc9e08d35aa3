package cmd_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jrsteele09/survey-admin/cmd/surveyctl/cmd"
	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/jrsteele09/survey-admin/users"
	"github.com/jrsteele09/survey-admin/vault"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := cmd.NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestGenKey(t *testing.T) {
	out, err := execute(t, "", "genkey")
	require.NoError(t, err)

	key := strings.TrimSpace(out)
	raw, err := hex.DecodeString(key)
	require.NoError(t, err)
	require.Len(t, raw, vault.KeySize)
	require.NoError(t, vault.New(key).Validate())
}

func TestHashPassword(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		out, err := execute(t, "Password123\n", "hash-password")
		require.NoError(t, err)
		require.True(t, users.CheckPasswordHash("Password123", strings.TrimSpace(out)))
	})

	t.Run("flag", func(t *testing.T) {
		out, err := execute(t, "", "hash-password", "--password", "Password123")
		require.NoError(t, err)
		require.True(t, users.CheckPasswordHash("Password123", strings.TrimSpace(out)))
	})

	t.Run("weak password rejected", func(t *testing.T) {
		_, err := execute(t, "weak\n", "hash-password")
		require.ErrorContains(t, err, "at least 8 characters")

		out, err := execute(t, "weak\n", "hash-password", "--no-strength-check")
		require.NoError(t, err)
		require.True(t, users.CheckPasswordHash("weak", strings.TrimSpace(out)))
	})

	t.Run("no input", func(t *testing.T) {
		_, err := execute(t, "", "hash-password")
		require.Error(t, err)
	})
}

func TestEncrypt(t *testing.T) {
	key, err := vault.GenerateKey()
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		out, err := execute(t, "tf_secret\n", "encrypt", "--key", key)
		require.NoError(t, err)

		var secret vault.EncryptedSecret
		require.NoError(t, json.Unmarshal([]byte(out), &secret))
		plaintext, err := vault.New(key).Decrypt(secret)
		require.NoError(t, err)
		require.Equal(t, "tf_secret", plaintext)
	})

	t.Run("key from environment", func(t *testing.T) {
		t.Setenv("ENCRYPTION_KEY", key)
		out, err := execute(t, "", "encrypt", "--value", "sk_secret")
		require.NoError(t, err)
		require.Contains(t, out, `"authTag"`)
	})

	t.Run("invalid key", func(t *testing.T) {
		t.Setenv("ENCRYPTION_KEY", "")
		_, err := execute(t, "x\n", "encrypt")
		require.ErrorIs(t, err, apperrors.ErrConfiguration)
	})
}
