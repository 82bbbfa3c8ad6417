// Package cli holds the cobra commands of the learning-api binary.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "learning-api",
	Short: "Learning platform backend",
	Long: `Learning platform backend: accounts, authentication and access control.

	learning-api serve
	learning-api create-admin --email admin@example.com --username admin --password secret
`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
