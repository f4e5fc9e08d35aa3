// Package cmd provides the surveyctl commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "surveyctl",
		Short: "Survey Admin operator tooling",
		Long: `surveyctl prepares secrets for a Survey Admin deployment.

Examples:
  surveyctl genkey                      Print a new ENCRYPTION_KEY
  surveyctl hash-password               Read a password from stdin and print its bcrypt hash
  ENCRYPTION_KEY=... surveyctl encrypt  Encrypt stdin into an EncryptedSecret JSON document`,
		SilenceUsage: true,
	}
	root.AddCommand(newGenKeyCmd(), newHashPasswordCmd(), newEncryptCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
