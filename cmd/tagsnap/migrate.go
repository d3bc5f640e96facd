package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tagsnap/tagsnap/internal/cli"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// initStorage migrates as part of opening the database.
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Database is up to date"))
			return nil
		},
	}
}
