package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/volunteerhub/backend/internal/config"
	"github.com/volunteerhub/backend/pkg/logger"
	"github.com/volunteerhub/backend/pkg/utils"
)

var (
	flagLogLevel  string
	flagLogFormat string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "volunteerhub",
	Short: "VolunteerHub API server",
	Long: `VolunteerHub serves the event and volunteer registration API.

Commands:
  volunteerhub serve        Start the HTTP server (default)
  volunteerhub seed-admin   Create or promote an admin account
  volunteerhub version      Print the build version`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if flagLogLevel != "" {
			cfg.Log.Level = flagLogLevel
		}
		if flagLogFormat != "" {
			cfg.Log.Format = flagLogFormat
		}
		logger.InitWith(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
		utils.ConfigureJWT(utils.JWTSettings{
			AccessSecret:  cfg.JWT.AccessSecret,
			AccessTTL:     cfg.JWT.AccessExpiry,
			RefreshSecret: cfg.JWT.RefreshSecret,
			RefreshTTL:    cfg.JWT.RefreshExpiry,
		})
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Override LOG_FORMAT (json, console)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
