// Package main provides a CLI for administering the groupgate group graph.
//
// The CLI supports:
//   - migrate: Apply the group graph schema and seed well-known groups
//   - group: Create groups and manage membership edges
//   - scope: Create the generated permission groups for a scope
//   - expand: Print the flattened closure of a group
//   - check: Evaluate a membership requirement against a group list
//
// Commands that touch the database need database.url (or GROUPGATE_DATABASE_URL,
// or a groupgate.yaml discovered from the working directory).
package main

import (
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	Execute()
}
