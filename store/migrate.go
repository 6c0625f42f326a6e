package store

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/groupgate/groupgate"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// RunMigrations applies all pending migrations for the group graph tables.
// Idempotent; safe to run on every startup. Seeding the well-known groups
// is a separate step (SeedWellKnown) because identities are assigned in Go.
func RunMigrations(db *sql.DB, dialect groupgate.Dialect) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(dialect.Name()); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
