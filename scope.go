package groupgate

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Conventional permission kinds. Scopes and entity configs default to these
// three; both accept additional kinds.
const (
	PermRead   = "read"
	PermWrite  = "write"
	PermDelete = "delete"
)

// DefaultPermKinds returns the conventional permission kinds in a fresh
// slice safe for the caller to modify.
func DefaultPermKinds() []string {
	return []string{PermRead, PermWrite, PermDelete}
}

// Scope is a named capability domain, typically one per resource type. Each
// permission kind maps to one generated scope-typed group; holding that
// group passes the scope gate for the kind on every entity class declaring
// the scope.
type Scope struct {
	Name        string
	DisplayName string

	// Perms maps each permission kind to the name of the group granting it.
	Perms map[string]string
}

// NewScope builds a scope named from the slugified display name, with the
// default permission kinds mapped to their derived group names.
func NewScope(displayName string, kinds ...string) Scope {
	if len(kinds) == 0 {
		kinds = DefaultPermKinds()
	}
	s := Scope{
		Name:        Slugify(displayName),
		DisplayName: displayName,
		Perms:       make(map[string]string, len(kinds)),
	}
	for _, kind := range kinds {
		s.Perms[kind] = DeriveName(TypeScope, s.PermName(kind))
	}
	return s
}

// PermName returns the deterministic display-name slug for the group
// generated for kind: scope "widget" and kind "read" yield "widget-read".
func (s Scope) PermName(kind string) string {
	return Slugify(s.Name + "-" + kind)
}

// PermGroup returns the name of the group granting kind on this scope.
func (s Scope) PermGroup(kind string) (string, bool) {
	name, ok := s.Perms[kind]
	return name, ok
}

// Kinds returns the scope's permission kinds in sorted order.
func (s Scope) Kinds() []string {
	kinds := make([]string, 0, len(s.Perms))
	for k := range s.Perms {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Merge combines two scopes of the same name. Perms from other win for
// overlapping kinds; the display name is taken from whichever side defines
// one, other winning if both do.
func (s Scope) Merge(other Scope) Scope {
	merged := Scope{
		Name:        s.Name,
		DisplayName: s.DisplayName,
		Perms:       make(map[string]string, len(s.Perms)+len(other.Perms)),
	}
	if other.DisplayName != "" {
		merged.DisplayName = other.DisplayName
	}
	for k, v := range s.Perms {
		merged.Perms[k] = v
	}
	for k, v := range other.Perms {
		merged.Perms[k] = v
	}
	return merged
}

// CreateScopeGroups constructs one scope-typed group per permission kind
// declared by the scope, tagged with the scope name and kind for later
// discovery. Groups are returned in sorted kind order with fresh IDs; the
// store persists them.
func CreateScopeGroups(s Scope) ([]Group, error) {
	if s.Name == "" {
		return nil, fmt.Errorf("scope has no name: %w", ErrInvalidGroup)
	}

	groups := make([]Group, 0, len(s.Perms))
	for _, kind := range s.Kinds() {
		g, err := NewGroup(s.PermName(kind), TypeScope,
			WithID(uuid.New()),
			WithScopeTag(s.Name, kind),
		)
		if err != nil {
			return nil, fmt.Errorf("scope %q kind %q: %w", s.Name, kind, err)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// ScopesFromGroups reconstructs the scopes represented by the scope-tagged
// groups in the set, merging kinds that belong to the same scope name. It
// is used when flattening an application's or profile's granted groups into
// the scope capabilities a session needs for scope-gated checks.
//
// The result is sorted by scope name. Groups without scope tags are
// ignored.
func ScopesFromGroups(groups GroupSet) []Scope {
	byName := make(map[string]Scope)
	for _, g := range groups {
		if g.ScopeName == "" || g.ScopePermission == "" {
			continue
		}
		scope, ok := byName[g.ScopeName]
		if !ok {
			scope = Scope{Name: g.ScopeName, Perms: make(map[string]string)}
		}
		scope.Perms[g.ScopePermission] = g.Name
		byName[g.ScopeName] = scope
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	scopes := make([]Scope, 0, len(names))
	for _, name := range names {
		scopes = append(scopes, byName[name])
	}
	return scopes
}
