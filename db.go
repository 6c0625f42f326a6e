package groupgate

import (
	"context"
	"database/sql"
	"strconv"
)

// Querier executes queries against the database.
// Implemented by *sql.DB, *sql.Tx, and *sql.Conn.
//
// The minimal interface lets the store and enforcement layer run inside a
// caller's transaction, so a permission check and the mutation it guards
// commit or fail together.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Execer extends Querier with ExecContext for mutations and migrations.
type Execer interface {
	Querier
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Dialect selects placeholder rendering for generated SQL. Production runs
// on PostgreSQL; tests run hermetically on SQLite.
type Dialect int

const (
	// DialectPostgres renders $1, $2, ... placeholders.
	DialectPostgres Dialect = iota

	// DialectSQLite renders ? placeholders.
	DialectSQLite
)

// Placeholder returns the placeholder for the n-th argument (1-based).
func (d Dialect) Placeholder(n int) string {
	if d == DialectSQLite {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

// Name returns the dialect name as understood by goose and database/sql
// driver registration: "postgres" or "sqlite3".
func (d Dialect) Name() string {
	if d == DialectSQLite {
		return "sqlite3"
	}
	return "postgres"
}
