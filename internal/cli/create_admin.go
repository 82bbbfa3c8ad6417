package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var adminFlags struct {
	email    string
	username string
	password string
}

// createAdminCmd seeds an administrator without starting the server.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the initial admin account if none exists",
	Long: `Create the initial admin account if none exists. Flags fall back to
ADMIN_EMAIL, ADMIN_USERNAME and ADMIN_PASSWORD.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		seed := adminSeed(a.cfg)
		if adminFlags.email != "" {
			seed.Email = adminFlags.email
		}
		if adminFlags.username != "" {
			seed.Username = adminFlags.username
		}
		if adminFlags.password != "" {
			seed.Password = adminFlags.password
		}
		if seed.Email == "" || seed.Username == "" || seed.Password == "" {
			return errors.New("email, username and password are required")
		}
		return a.seedAdmin(ctx, seed)
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().StringVar(&adminFlags.email, "email", "", "admin e-mail address")
	createAdminCmd.Flags().StringVar(&adminFlags.username, "username", "", "admin username")
	createAdminCmd.Flags().StringVar(&adminFlags.password, "password", "", "admin password")
}
