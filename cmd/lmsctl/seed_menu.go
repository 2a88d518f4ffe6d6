package main

import (
	"github.com/spf13/cobra"
)

var seedMenuCmd = &cobra.Command{
	Use:   "seed-menu",
	Short: "Install the default dashboard menu into an empty menu table",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := container.MenuService.SeedDefaults(cmd.Context())
		if err != nil {
			return err
		}
		if n == 0 {
			cmd.Println("Menu already has items, nothing seeded")
			return nil
		}
		cmd.Printf("Seeded %d menu items\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedMenuCmd)
}
