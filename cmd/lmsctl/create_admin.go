package main

import (
	"github.com/spf13/cobra"

	"github.com/f2expert/f2expert-sub001/domain/dto"
	"github.com/f2expert/f2expert-sub001/domain/models"
	"github.com/f2expert/f2expert-sub001/pkg/validation"
)

var adminFlags struct {
	email    string
	username string
	password string
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the bootstrap admin account",
	Long: `Create an admin account with the given credentials. Nothing changes
when an account with the email already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// same rules the API applies to admin-created accounts
		if err := validation.Struct(&dto.CreateUserRequest{
			Email:     adminFlags.email,
			Username:  adminFlags.username,
			Password:  adminFlags.password,
			FirstName: "Admin",
			Role:      models.RoleAdmin,
		}); err != nil {
			return err
		}

		user, created, err := container.UserService.EnsureAdmin(
			cmd.Context(), adminFlags.email, adminFlags.username, adminFlags.password,
		)
		if err != nil {
			return err
		}

		if !created {
			cmd.Printf("Account %s already exists (role %s), left unchanged\n", user.Email, user.Role)
			return nil
		}
		cmd.Printf("Admin %s created with id %s\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminFlags.email, "email", "", "admin email (required)")
	createAdminCmd.Flags().StringVar(&adminFlags.username, "username", "admin", "admin username")
	createAdminCmd.Flags().StringVar(&adminFlags.password, "password", "", "admin password, at least 8 characters (required)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createAdminCmd)
}
