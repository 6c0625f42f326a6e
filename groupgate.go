// Package groupgate provides group-based access control for multi-tenant
// services: every stored record carries a bounded list of group names per
// permission kind, groups form a (possibly cyclic) membership graph, and
// every data access is filtered through the flattened group set carried by
// a capability session.
//
// # Core Concepts
//
// A Group is a named, typed capability unit. Groups may be members of other
// groups; holding a group transitively grants everything reachable through
// the membership graph. Expand flattens that graph into the closure used
// for permission checks.
//
//	admins, _ := groupgate.NewGroup("Admins", groupgate.TypeFeature)
//	held, _ := groupgate.Expand(ctx, src, admins)
//
// A Scope is a capability domain (typically one per resource type) that
// generates one scope-typed group per permission kind:
//
//	widget := groupgate.NewScope("widget")
//	groups, _ := groupgate.CreateScopeGroups(widget)
//	// s-widget-read, s-widget-write, s-widget-delete
//
// # Enforcement
//
// The enforce package turns (active groups, action, entity config) into an
// allow/deny decision or a SQL filter predicate. The session package carries
// the flattened group set through a request and supports stack-disciplined
// temporary overrides. The token package serializes sessions into JWT
// claims at the service boundary.
//
// # Storage
//
// The store package persists the group graph in PostgreSQL (SQLite for
// tests) and implements the batched adjacency fetch that Expand walks.
// Expansion is O(edges) per call and intended for session construction
// time, not per-request-per-entity.
package groupgate

import (
	"sort"

	"github.com/google/uuid"
)

// GroupType determines which authority may grant a group to a session.
// The values are the single-character codes used on the wire.
type GroupType string

const (
	// TypeSystem marks seeded, well-known groups (root, admin, everybody...).
	TypeSystem GroupType = "0"

	// TypeScope marks groups generated by a Scope, one per permission kind.
	TypeScope GroupType = "s"

	// TypeFeature marks groups granting application features.
	TypeFeature GroupType = "f"

	// TypeData marks data-ownership groups, including per-profile
	// "group of one" owner groups.
	TypeData GroupType = "d"
)

// String returns the wire code for the group type.
func (t GroupType) String() string {
	return string(t)
}

// Valid reports whether t is one of the defined group types.
func (t GroupType) Valid() bool {
	switch t {
	case TypeSystem, TypeScope, TypeFeature, TypeData:
		return true
	}
	return false
}

// Group is a named, typed capability unit. Holding a group grants whatever
// permission slots reference it by name.
//
// Name is globally unique and derived from the type and display name unless
// an explicit name was supplied at construction (see NewGroup). ScopeName
// and ScopePermission are set only on groups generated by a Scope and
// identify which scope and permission kind the group grants.
//
// Membership edges are not stored on the value; they live in the adjacency
// relation walked by Expand via a MemberSource.
type Group struct {
	ID              uuid.UUID
	Name            string
	DisplayName     string
	Type            GroupType
	ScopeName       string
	ScopePermission string

	explicitName bool
}

// GroupOption configures a Group at construction time.
type GroupOption func(*Group)

// WithName supplies an explicit name, bypassing derivation from the display
// name and type. This is a construction-time override only: later calls to
// SetDisplayName or SetType will not re-derive the name.
func WithName(name string) GroupOption {
	return func(g *Group) {
		g.Name = name
		g.explicitName = true
	}
}

// WithID supplies the group's identity. Groups created without an ID are
// assigned one when persisted.
func WithID(id uuid.UUID) GroupOption {
	return func(g *Group) {
		g.ID = id
	}
}

// WithScopeTag marks the group as generated by a scope for the given
// permission kind. Used by CreateScopeGroups and scope discovery.
func WithScopeTag(scopeName, permission string) GroupOption {
	return func(g *Group) {
		g.ScopeName = scopeName
		g.ScopePermission = permission
	}
}

// NewGroup constructs a group. The name is derived as the type code plus
// the slugified display name ("s-widget-read") unless WithName overrides
// it. Constructing a group with neither an explicit name nor a display
// name and valid type fails with ErrInvalidGroup.
func NewGroup(displayName string, typ GroupType, opts ...GroupOption) (Group, error) {
	g := Group{
		DisplayName: displayName,
		Type:        typ,
	}
	for _, opt := range opts {
		opt(&g)
	}

	if !g.explicitName {
		if displayName == "" || !typ.Valid() {
			return Group{}, ErrInvalidGroup
		}
		g.Name = DeriveName(typ, displayName)
	}
	if g.Name == "" {
		return Group{}, ErrInvalidGroup
	}
	return g, nil
}

// SetDisplayName updates the display name, re-deriving the group name
// unless an explicit name was supplied at construction.
func (g *Group) SetDisplayName(displayName string) {
	g.DisplayName = displayName
	if !g.explicitName {
		g.Name = DeriveName(g.Type, g.DisplayName)
	}
}

// SetType updates the group type, re-deriving the group name unless an
// explicit name was supplied at construction.
func (g *Group) SetType(typ GroupType) {
	g.Type = typ
	if !g.explicitName {
		g.Name = DeriveName(g.Type, g.DisplayName)
	}
}

// String returns the group's unique name.
func (g Group) String() string {
	return g.Name
}

// GroupSet is a de-duplicated collection of groups keyed by name. It is the
// shape of a session's flattened capability set and the input to every
// permission decision.
//
// A GroupSet is not safe for concurrent mutation; sessions treat their set
// as immutable outside the override stack.
type GroupSet map[string]Group

// NewGroupSet builds a set from the given groups, de-duplicating by name.
func NewGroupSet(groups ...Group) GroupSet {
	s := make(GroupSet, len(groups))
	for _, g := range groups {
		s[g.Name] = g
	}
	return s
}

// Has reports whether the set contains a group with the given name.
func (s GroupSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// HasAny reports whether the set contains any of the given names.
func (s GroupSet) HasAny(names ...string) bool {
	for _, n := range names {
		if s.Has(n) {
			return true
		}
	}
	return false
}

// Add inserts a group, replacing any existing group with the same name.
func (s GroupSet) Add(g Group) {
	s[g.Name] = g
}

// Names returns the member names in sorted order.
func (s GroupSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Groups returns the members ordered by name.
func (s GroupSet) Groups() []Group {
	groups := make([]Group, 0, len(s))
	for _, n := range s.Names() {
		groups = append(groups, s[n])
	}
	return groups
}

// Clone returns an independent copy of the set.
func (s GroupSet) Clone() GroupSet {
	c := make(GroupSet, len(s))
	for n, g := range s {
		c[n] = g
	}
	return c
}

// Union returns a new set containing the members of both sets. Groups from
// other win on name collision.
func (s GroupSet) Union(other GroupSet) GroupSet {
	u := s.Clone()
	for n, g := range other {
		u[n] = g
	}
	return u
}
