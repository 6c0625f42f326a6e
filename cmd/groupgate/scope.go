package main

import (
	"github.com/spf13/cobra"

	"github.com/groupgate/groupgate"
	"github.com/groupgate/groupgate/internal/cli"
)

var scopeKinds []string

var scopeCmd = &cobra.Command{
	Use:   "scope",
	Short: "Manage capability scopes",
}

var scopeCreateCmd = &cobra.Command{
	Use:   "create <display-name>",
	Short: "Create a scope's permission groups",
	Long: `Create the generated permission groups for a scope.

A scope named "Widget" with the default kinds produces the groups
s-widget-read, s-widget-write, and s-widget-delete. Kinds whose group
already exists are left untouched, so re-running is safe.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope := groupgate.NewScope(args[0], scopeKinds...)

		db, st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		groups, err := st.CreateScopeGroups(cmd.Context(), scope)
		if err != nil {
			return cli.GeneralError("creating scope groups", err)
		}

		printf("Scope %s:\n", scope.Name)
		for _, g := range groups {
			printf("  %s (%s)\n", g.Name, g.ScopePermission)
		}
		return nil
	},
}

func init() {
	scopeCreateCmd.Flags().StringSliceVar(&scopeKinds, "kinds", nil,
		"permission kinds (default: read,write,delete)")

	scopeCmd.AddCommand(scopeCreateCmd)
}
