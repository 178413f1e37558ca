package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the server version, injected at build time:
//
//	go build -ldflags "-X github.com/volunteerhub/backend/cmd/server/cmd.Version=1.2.3"
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
