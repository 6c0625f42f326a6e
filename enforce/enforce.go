// Package enforce implements the enforcement layer: it translates (active
// groups, action, entity class) into an allow/deny decision or a SQL filter
// predicate, and guards insert/update/delete so a caller cannot escalate
// its own permissions within the mutation being checked.
//
// # Entity configuration
//
// Every permissioned entity class registers an EntityConfig at startup.
// Registration is an explicit call producing a plain lookup table; nothing
// is wired up by side effects at type-definition time:
//
//	reg := enforce.NewRegistry()
//	reg.Register(enforce.EntityConfig{
//		Type:  "widget",
//		Table: "widgets",
//		Scope: &widgetScope,
//	})
//	enf := enforce.New(reg)
//
// # Decision order
//
// For every check: an empty group set denies, the root group allows, then
// the action resolves to a (scope kind, object kind) pair. A declared scope
// gates the whole class before any object-level slot is consulted; actions
// without an object kind (insert) and kinds the class never declared pass
// the object level. Otherwise the entity's slot values must intersect the
// active groups.
//
// The same decision serves as a boolean gate on write paths and compiles
// into a filter predicate ANDed into read queries, so unauthorized rows are
// never returned rather than hidden after the fact.
package enforce

import (
	"fmt"
	"sync"

	"github.com/groupgate/groupgate"
	"github.com/groupgate/groupgate/permset"
)

// Action names resolved through an entity's action map.
const (
	ActionSelect = "select"
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ActionPerms names the permission kinds an action is checked against: the
// scope-level kind gating the whole class, and the object-level kind
// checked against the entity's slots. An empty ObjectKind means there is no
// object-level check (insert has no existing row to consult).
type ActionPerms struct {
	ScopeKind  string
	ObjectKind string
}

// DefaultActions returns the conventional action map. Update deliberately
// gates on read at the scope level but write at the object level.
func DefaultActions() map[string]ActionPerms {
	return map[string]ActionPerms{
		ActionSelect: {ScopeKind: groupgate.PermRead, ObjectKind: groupgate.PermRead},
		ActionInsert: {ScopeKind: groupgate.PermWrite},
		ActionUpdate: {ScopeKind: groupgate.PermRead, ObjectKind: groupgate.PermWrite},
		ActionDelete: {ScopeKind: groupgate.PermDelete, ObjectKind: groupgate.PermDelete},
	}
}

// EntityConfig declares how one entity class participates in enforcement.
type EntityConfig struct {
	// Type is the entity class name used for registry lookup.
	Type string

	// Table is the storage table carrying the permission slot columns.
	Table string

	// Scope, when set, gates every action on the class: the caller must
	// hold the scope's group for the action's scope kind before any
	// object-level slot is consulted.
	Scope *groupgate.Scope

	// Kinds are the object-level permission kinds the class declares.
	// Actions resolving to an undeclared kind are not enforced at the
	// object level. Defaults to read/write/delete.
	Kinds []string

	// Capacity is the per-kind slot capacity. Defaults to
	// permset.DefaultCapacity.
	Capacity int

	// Actions maps action names to permission kinds. Defaults to
	// DefaultActions.
	Actions map[string]ActionPerms
}

// DeclaresKind reports whether the class declares the object-level kind.
func (c EntityConfig) DeclaresKind(kind string) bool {
	for _, k := range c.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// NewPermissionSet returns an empty slot set at the class's capacity.
func (c EntityConfig) NewPermissionSet() *permset.PermissionSet {
	return permset.New(permset.WithCapacity(c.Capacity))
}

// withDefaults fills the zero-value fields of a registered config.
func (c EntityConfig) withDefaults() EntityConfig {
	if c.Kinds == nil {
		c.Kinds = groupgate.DefaultPermKinds()
	}
	if c.Capacity <= 0 {
		c.Capacity = permset.DefaultCapacity
	}
	if c.Actions == nil {
		c.Actions = DefaultActions()
	}
	return c
}

// Registry is the lookup table of entity configurations, populated once at
// startup and read on every check.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]EntityConfig
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{configs: make(map[string]EntityConfig)}
}

// Register adds an entity configuration, filling defaults for kinds,
// capacity, and the action map. Registering an empty type name or the same
// type twice is a configuration error.
func (r *Registry) Register(cfg EntityConfig) error {
	if cfg.Type == "" {
		return fmt.Errorf("entity config without type: %w", groupgate.ErrMisconfigured)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.configs[cfg.Type]; exists {
		return fmt.Errorf("entity type %q already registered: %w", cfg.Type, groupgate.ErrMisconfigured)
	}
	r.configs[cfg.Type] = cfg.withDefaults()
	return nil
}

// MustRegister is Register for startup wiring; it panics on configuration
// errors.
func (r *Registry) MustRegister(cfg EntityConfig) {
	if err := r.Register(cfg); err != nil {
		panic(err)
	}
}

// Lookup returns the configuration for an entity type.
func (r *Registry) Lookup(entityType string) (EntityConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[entityType]
	if !ok {
		return EntityConfig{}, fmt.Errorf("unknown entity type %q: %w", entityType, groupgate.ErrMisconfigured)
	}
	return cfg, nil
}

// Types returns the registered entity type names.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.configs))
	for t := range r.configs {
		types = append(types, t)
	}
	return types
}
