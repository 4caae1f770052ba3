package main

import (
	"github.com/spf13/cobra"

	"todo-ai-backend/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, database, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer database.Close()

		return db.Migrate(cmd.Context(), database)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
