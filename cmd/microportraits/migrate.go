package main

import (
	"github.com/cltl/micro-portraits/internal/config"
	"github.com/cltl/micro-portraits/internal/db"

	"github.com/spf13/cobra"
)

func migrateCmd(opts *options) *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the postgres schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := databaseURL
			if url == "" {
				url = opts.cfg.Database.URL
			}
			if err := config.Require(map[string]string{"database.url": url}); err != nil {
				return err
			}
			return db.Migrate(url)
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database", "", "postgres URL (defaults to DATABASE_URL)")
	return cmd
}
