package cmd

import (
	"fmt"

	"github.com/jrsteele09/survey-admin/users"
	"github.com/spf13/cobra"
)

func newHashPasswordCmd() *cobra.Command {
	var (
		password  string
		skipCheck bool
	)
	c := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the bcrypt hash of a password",
		Long:  "Reads the password from --password or the first line of stdin and prints a bcrypt hash suitable for the users table.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readSecret(cmd, password)
			if err != nil {
				return err
			}
			if !skipCheck {
				if err := users.ValidatePasswordStrength(pw); err != nil {
					return err
				}
			}
			hash, err := users.HashPassword(pw)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
	c.Flags().StringVar(&password, "password", "", "password to hash (default: read stdin)")
	c.Flags().BoolVar(&skipCheck, "no-strength-check", false, "skip the password strength rules")
	return c
}
