// Package permset implements the bounded permission slots attached to
// every permissioned entity: per permission kind, a fixed-capacity ordered
// list of group names persisted as nullable columns.
//
// The slot mechanism does no defaulting and no enforcement; it only holds
// and validates values. Filling defaults from a session's preferences at
// insert time and checking slots against active groups are responsibilities
// of the enforce package.
package permset

import (
	"fmt"
	"sort"

	"github.com/groupgate/groupgate"
)

// DefaultCapacity is the conventional number of slots per permission kind.
const DefaultCapacity = 2

// PermissionSet holds the configured group names of one entity, organized
// as capacity-bounded ordered slots per permission kind. The zero value is
// not usable; construct with New.
type PermissionSet struct {
	capacity int
	slots    map[string][]string
}

// Option configures a PermissionSet.
type Option func(*PermissionSet)

// WithCapacity overrides the slot capacity (default 2). Capacity applies
// uniformly to every kind in the set.
func WithCapacity(capacity int) Option {
	return func(p *PermissionSet) {
		if capacity > 0 {
			p.capacity = capacity
		}
	}
}

// New returns an empty permission set.
func New(opts ...Option) *PermissionSet {
	p := &PermissionSet{
		capacity: DefaultCapacity,
		slots:    make(map[string][]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Capacity returns the per-kind slot capacity.
func (p *PermissionSet) Capacity() int {
	return p.capacity
}

// Get returns the configured group names for kind in slot order, omitting
// empty slots. The result never contains empty strings and is safe for the
// caller to modify.
func (p *PermissionSet) Get(kind string) []string {
	var names []string
	for _, name := range p.slots[kind] {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Set assigns the group names for kind. Passing more names than the
// capacity fails with ErrTooManyPermissions; slots beyond len(names) are
// cleared. Set never defaults missing values.
func (p *PermissionSet) Set(kind string, names ...string) error {
	if len(names) > p.capacity {
		return fmt.Errorf("%d values for kind %q exceed capacity %d: %w",
			len(names), kind, p.capacity, groupgate.ErrTooManyPermissions)
	}

	slots := make([]string, p.capacity)
	copy(slots, names)
	p.slots[kind] = slots
	return nil
}

// Clear removes all values for kind.
func (p *PermissionSet) Clear(kind string) {
	delete(p.slots, kind)
}

// Kinds returns the kinds with at least one configured slot, sorted.
func (p *PermissionSet) Kinds() []string {
	var kinds []string
	for kind := range p.slots {
		if len(p.Get(kind)) > 0 {
			kinds = append(kinds, kind)
		}
	}
	sort.Strings(kinds)
	return kinds
}

// SlotValues returns the persisted representation of kind: exactly
// capacity values in slot order, nil for empty slots. Suitable for binding
// to the <kind>_0 .. <kind>_{capacity-1} columns.
func (p *PermissionSet) SlotValues(kind string) []any {
	values := make([]any, p.capacity)
	slots := p.slots[kind]
	for i := range values {
		if i < len(slots) && slots[i] != "" {
			values[i] = slots[i]
		}
	}
	return values
}

// Columns returns the column names storing kind at the given capacity:
// kind_0 .. kind_{capacity-1}.
func Columns(kind string, capacity int) []string {
	cols := make([]string, capacity)
	for i := range cols {
		cols[i] = fmt.Sprintf("%s_%d", kind, i)
	}
	return cols
}
