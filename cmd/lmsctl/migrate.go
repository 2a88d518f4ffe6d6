package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/f2expert/f2expert-sub001/infrastructure/postgres"
	"github.com/f2expert/f2expert-sub001/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if container.DB == nil {
			return errors.New("migrate needs DB_DRIVER=postgres")
		}
		if err := postgres.Migrate(container.DB); err != nil {
			return err
		}
		logger.Info("Database schema is up to date", "db", container.Config.Database.DBName)
		cmd.Println("Migration complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
