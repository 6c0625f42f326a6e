// Package store persists the group graph and implements the batched
// adjacency fetch that groupgate.Expand walks. Production deployments run
// on PostgreSQL; tests run hermetically on SQLite through the same code
// path, selected by dialect.
//
// All methods accept any groupgate.Execer, so group mutations and the
// permission checks guarding them can share a *sql.Tx.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/groupgate/groupgate"
)

// ErrNotFound is returned when a referenced group does not exist.
var ErrNotFound = errors.New("store: group not found")

// Store is the SQL-backed group directory. It implements
// session.Directory (MemberSource + GroupByName).
type Store struct {
	db      groupgate.Execer
	dialect groupgate.Dialect
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithDialect selects placeholder rendering. Defaults to Postgres.
func WithDialect(d groupgate.Dialect) Option {
	return func(s *Store) { s.dialect = d }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a store over the given database handle, which may be a
// *sql.DB, *sql.Tx, or *sql.Conn.
func New(db groupgate.Execer, opts ...Option) *Store {
	s := &Store{
		db:      db,
		dialect: groupgate.DialectPostgres,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dialect returns the store's SQL dialect, shared with the enforcement
// layer's criterion rendering.
func (s *Store) Dialect() groupgate.Dialect {
	return s.dialect
}

const groupColumns = "id, name, display_name, type, scope_name, scope_permission"

// scanGroup reads one group row. scope_name and scope_permission are
// nullable.
func scanGroup(row interface{ Scan(...any) error }) (groupgate.Group, error) {
	var (
		id        string
		name      string
		display   string
		typ       string
		scopeName sql.NullString
		scopePerm sql.NullString
	)
	if err := row.Scan(&id, &name, &display, &typ, &scopeName, &scopePerm); err != nil {
		return groupgate.Group{}, err
	}

	gid, err := uuid.Parse(id)
	if err != nil {
		return groupgate.Group{}, fmt.Errorf("parsing group id %q: %w", id, err)
	}

	opts := []groupgate.GroupOption{
		groupgate.WithName(name),
		groupgate.WithID(gid),
	}
	if scopeName.Valid {
		opts = append(opts, groupgate.WithScopeTag(scopeName.String, scopePerm.String))
	}
	return groupgate.NewGroup(display, groupgate.GroupType(typ), opts...)
}

// CreateGroup persists a group, assigning an identity if it has none, and
// returns the stored value.
func (s *Store) CreateGroup(ctx context.Context, g groupgate.Group) (groupgate.Group, error) {
	if g.Name == "" {
		return groupgate.Group{}, groupgate.ErrInvalidGroup
	}
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}

	query := fmt.Sprintf(
		"INSERT INTO gg_groups (%s) VALUES (%s, %s, %s, %s, %s, %s)",
		groupColumns,
		s.dialect.Placeholder(1), s.dialect.Placeholder(2), s.dialect.Placeholder(3),
		s.dialect.Placeholder(4), s.dialect.Placeholder(5), s.dialect.Placeholder(6),
	)
	_, err := s.db.ExecContext(ctx, query,
		g.ID.String(), g.Name, g.DisplayName, g.Type.String(),
		nullable(g.ScopeName), nullable(g.ScopePermission),
	)
	if err != nil {
		return groupgate.Group{}, fmt.Errorf("creating group %q: %w", g.Name, err)
	}
	return g, nil
}

// GroupByName resolves a group by its unique name.
func (s *Store) GroupByName(ctx context.Context, name string) (groupgate.Group, error) {
	query := fmt.Sprintf("SELECT %s FROM gg_groups WHERE name = %s",
		groupColumns, s.dialect.Placeholder(1))

	g, err := scanGroup(s.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return groupgate.Group{}, fmt.Errorf("group %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return groupgate.Group{}, fmt.Errorf("loading group %q: %w", name, err)
	}
	return g, nil
}

// GroupsByNames resolves a batch of groups by name. Unknown names are
// omitted from the result, preserving the matches-nothing denial behavior
// for stale group references.
func (s *Store) GroupsByNames(ctx context.Context, names []string) ([]groupgate.Group, error) {
	if len(names) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(names))
	args := make([]any, len(names))
	for i, n := range names {
		placeholders[i] = s.dialect.Placeholder(i + 1)
		args[i] = n
	}
	query := fmt.Sprintf("SELECT %s FROM gg_groups WHERE name IN (%s) ORDER BY name",
		groupColumns, strings.Join(placeholders, ", "))

	return s.queryGroups(ctx, query, args...)
}

// ScopeGroups returns the groups generated for a scope, ordered by
// permission kind.
func (s *Store) ScopeGroups(ctx context.Context, scopeName string) ([]groupgate.Group, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM gg_groups WHERE scope_name = %s ORDER BY scope_permission",
		groupColumns, s.dialect.Placeholder(1))
	return s.queryGroups(ctx, query, scopeName)
}

func (s *Store) queryGroups(ctx context.Context, query string, args ...any) ([]groupgate.Group, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var groups []groupgate.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// AddMember records that group is a member of memberOf. Adding an existing
// edge is not an error.
func (s *Store) AddMember(ctx context.Context, group, memberOf groupgate.Group) error {
	query := fmt.Sprintf(
		"INSERT INTO gg_group_members (group_id, member_of) VALUES (%s, %s) ON CONFLICT DO NOTHING",
		s.dialect.Placeholder(1), s.dialect.Placeholder(2))

	_, err := s.db.ExecContext(ctx, query, group.ID.String(), memberOf.ID.String())
	if err != nil {
		return fmt.Errorf("adding %q to %q: %w", group.Name, memberOf.Name, err)
	}
	return nil
}

// RemoveMember deletes a membership edge.
func (s *Store) RemoveMember(ctx context.Context, group, memberOf groupgate.Group) error {
	query := fmt.Sprintf(
		"DELETE FROM gg_group_members WHERE group_id = %s AND member_of = %s",
		s.dialect.Placeholder(1), s.dialect.Placeholder(2))

	_, err := s.db.ExecContext(ctx, query, group.ID.String(), memberOf.ID.String())
	if err != nil {
		return fmt.Errorf("removing %q from %q: %w", group.Name, memberOf.Name, err)
	}
	return nil
}

// Members implements groupgate.MemberSource: one batched query per BFS
// level of the expansion walk.
func (s *Store) Members(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]groupgate.Group, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = s.dialect.Placeholder(i + 1)
		args[i] = id.String()
	}
	query := fmt.Sprintf(
		"SELECT m.group_id, g.id, g.name, g.display_name, g.type, g.scope_name, g.scope_permission"+
			" FROM gg_group_members m JOIN gg_groups g ON g.id = m.member_of"+
			" WHERE m.group_id IN (%s)",
		strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[uuid.UUID][]groupgate.Group)
	for rows.Next() {
		var (
			fromID    string
			id        string
			name      string
			display   string
			typ       string
			scopeName sql.NullString
			scopePerm sql.NullString
		)
		if err := rows.Scan(&fromID, &id, &name, &display, &typ, &scopeName, &scopePerm); err != nil {
			return nil, err
		}

		from, err := uuid.Parse(fromID)
		if err != nil {
			return nil, fmt.Errorf("parsing group id %q: %w", fromID, err)
		}
		gid, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parsing group id %q: %w", id, err)
		}

		opts := []groupgate.GroupOption{groupgate.WithName(name), groupgate.WithID(gid)}
		if scopeName.Valid {
			opts = append(opts, groupgate.WithScopeTag(scopeName.String, scopePerm.String))
		}
		g, err := groupgate.NewGroup(display, groupgate.GroupType(typ), opts...)
		if err != nil {
			return nil, err
		}
		result[from] = append(result[from], g)
	}
	return result, rows.Err()
}

// CreateScopeGroups generates and persists the scope's permission groups.
// Kinds whose group already exists are returned as stored rather than
// recreated, so the call is idempotent.
func (s *Store) CreateScopeGroups(ctx context.Context, scope groupgate.Scope) ([]groupgate.Group, error) {
	generated, err := groupgate.CreateScopeGroups(scope)
	if err != nil {
		return nil, err
	}

	stored := make([]groupgate.Group, 0, len(generated))
	for _, g := range generated {
		existing, err := s.GroupByName(ctx, g.Name)
		if err == nil {
			stored = append(stored, existing)
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		created, err := s.CreateGroup(ctx, g)
		if err != nil {
			return nil, err
		}
		stored = append(stored, created)
	}
	return stored, nil
}

// SeedWellKnown inserts the well-known system groups (root, admin, staff,
// everybody, user, nobody, push) if missing. Safe to run on every startup.
func (s *Store) SeedWellKnown(ctx context.Context) error {
	for _, g := range groupgate.WellKnownGroups() {
		_, err := s.GroupByName(ctx, g.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		if _, err := s.CreateGroup(ctx, g); err != nil {
			return err
		}
		s.logger.Info("seeded well-known group", "name", g.Name)
	}
	return nil
}

// nullable maps an empty string to SQL NULL.
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
