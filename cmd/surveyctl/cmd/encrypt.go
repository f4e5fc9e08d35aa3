package cmd

import (
	"encoding/json"
	"os"

	"github.com/jrsteele09/survey-admin/vault"
	"github.com/spf13/cobra"
)

func newEncryptCmd() *cobra.Command {
	var (
		key   string
		value string
	)
	c := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a secret with the vault key",
		Long:  "Encrypts --value (or the first line of stdin) with --key, falling back to ENCRYPTION_KEY, and prints the EncryptedSecret as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				key = os.Getenv("ENCRYPTION_KEY")
			}
			v := vault.New(key)
			if err := v.Validate(); err != nil {
				return err
			}
			plaintext, err := readSecret(cmd, value)
			if err != nil {
				return err
			}
			secret, err := v.Encrypt(plaintext)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(secret)
		},
	}
	c.Flags().StringVar(&key, "key", "", "hex encoded 32-byte key (default: $ENCRYPTION_KEY)")
	c.Flags().StringVar(&value, "value", "", "plaintext to encrypt (default: read stdin)")
	return c
}
