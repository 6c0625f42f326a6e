package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/groupgate/groupgate"
	"github.com/groupgate/groupgate/internal/cli"
	"github.com/groupgate/groupgate/store"
)

var (
	// Global state set during PersistentPreRunE
	cfg        *cli.Config
	configPath string

	// Persistent flags
	cfgFile string
	verbose int
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "groupgate",
	Short: "Group-based access control",
	Long: `groupgate - Group-based access control

Groupgate administers the shared group graph behind the access-control
engine: seeded system groups, scope-generated permission groups, and the
membership edges flattened into every capability session.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, configPath, err = cli.LoadConfig(cfgFile)
		if err != nil {
			return cli.ConfigError("loading configuration", err)
		}
		if verbose > 0 && configPath != "" {
			fmt.Fprintf(os.Stderr, "using config %s\n", configPath)
		}

		return nil
	},
	SilenceUsage:  true, // Don't show usage on errors
	SilenceErrors: true, // We handle errors ourselves
}

// Command group IDs
const (
	groupSchema = "schema"
	groupGraph  = "graph"
	groupQuery  = "query"
)

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover groupgate.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity (can be repeated)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	// Define command groups
	rootCmd.AddGroup(
		&cobra.Group{ID: groupSchema, Title: "Schema:"},
		&cobra.Group{ID: groupGraph, Title: "Graph:"},
		&cobra.Group{ID: groupQuery, Title: "Query:"},
	)

	migrateCmd.GroupID = groupSchema
	rootCmd.AddCommand(migrateCmd)

	groupCmd.GroupID = groupGraph
	scopeCmd.GroupID = groupGraph
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(scopeCmd)

	expandCmd.GroupID = groupQuery
	checkCmd.GroupID = groupQuery
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(checkCmd)

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.ExitWithError(err)
	}
}

// openStore connects to the configured database and wraps it in a Store.
// The caller closes the returned *sql.DB.
func openStore() (*sql.DB, *store.Store, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, nil, cli.ConfigError("resolving database", err)
	}

	driver := cfg.Database.Driver
	dialect := groupgate.DialectPostgres
	if driver == "sqlite3" {
		dialect = groupgate.DialectSQLite
	} else {
		// pgx registers its database/sql driver under "pgx".
		driver = "pgx"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, cli.DBConnectError("connecting to database", err)
	}
	return db, store.New(db, store.WithDialect(dialect)), nil
}

// dialectFromConfig mirrors openStore's driver mapping for paths that need
// the dialect without a store.
func dialectFromConfig() groupgate.Dialect {
	if cfg.Database.Driver == "sqlite3" {
		return groupgate.DialectSQLite
	}
	return groupgate.DialectPostgres
}

// printf respects --quiet.
func printf(format string, args ...any) {
	if !quiet {
		fmt.Printf(format, args...)
	}
}
