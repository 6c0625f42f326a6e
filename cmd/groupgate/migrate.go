package main

import (
	"github.com/spf13/cobra"

	"github.com/groupgate/groupgate/internal/cli"
	"github.com/groupgate/groupgate/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the group graph schema",
	Long: `Apply the group graph schema and seed the well-known system groups.

Runs all pending schema migrations, then inserts the seven well-known
groups (root, admin, staff, everybody, user, nobody, push) if missing.
Safe to run on every deployment.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := store.RunMigrations(db, dialectFromConfig()); err != nil {
			return cli.GeneralError("running migrations", err)
		}
		if err := st.SeedWellKnown(cmd.Context()); err != nil {
			return cli.GeneralError("seeding well-known groups", err)
		}

		printf("Schema up to date.\n")
		return nil
	},
}
