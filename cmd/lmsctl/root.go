package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/f2expert/f2expert-sub001/pkg/di"
)

var container *di.Container

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lmsctl",
	Short: "F2Expert LMS administration tool",
	Long: `lmsctl runs one-off administration tasks against the LMS database
and storage: schema migration, bootstrap admin account, default dashboard
menu and the public-read policy of the upload bucket.

It reads the same environment (and .env file) as the API server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		container = di.NewContainer()
		if err := container.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if container == nil {
			return nil
		}
		return container.Cleanup()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
