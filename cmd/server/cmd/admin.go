package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/volunteerhub/backend/internal/database"
)

var (
	flagAdminEmail    string
	flagAdminPassword string
	flagAdminName     string
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create an admin account, or promote an existing user",
	Long: `Creates the admin account from ADMIN_EMAIL / ADMIN_PASSWORD / ADMIN_FULL_NAME,
or from the flags below. An existing user with the same email is promoted
to admin and keeps their password.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		admin := cfg.Admin
		if flagAdminEmail != "" {
			admin.Email = flagAdminEmail
		}
		if flagAdminPassword != "" {
			admin.Password = flagAdminPassword
		}
		if flagAdminName != "" {
			admin.FullName = flagAdminName
		}
		if admin.Email == "" {
			return fmt.Errorf("an admin email is required (--email or ADMIN_EMAIL)")
		}

		db, err := database.Connect(cfg.DB)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		created, err := database.SeedAdmin(db, admin)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", admin.Email)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s already present\n", admin.Email)
		}
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&flagAdminEmail, "email", "", "Admin email")
	seedAdminCmd.Flags().StringVar(&flagAdminPassword, "password", "", "Admin password (min 6 characters)")
	seedAdminCmd.Flags().StringVar(&flagAdminName, "name", "", "Admin full name")
	rootCmd.AddCommand(seedAdminCmd)
}
