package session

import (
	"fmt"

	"github.com/groupgate/groupgate"
)

// Modifier derives an overridden group set from the currently active one.
// The input is a private copy; modifiers may mutate and return it.
type Modifier func(groupgate.GroupSet) groupgate.GroupSet

// AddGroups yields the union of the active set and the given groups.
// Nested overrides compose: the inner override sees the outer's additions.
func AddGroups(groups ...groupgate.Group) Modifier {
	return func(active groupgate.GroupSet) groupgate.GroupSet {
		for _, g := range groups {
			active.Add(g)
		}
		return active
	}
}

// OnlyGroups replaces the active set entirely.
func OnlyGroups(groups ...groupgate.Group) Modifier {
	return func(groupgate.GroupSet) groupgate.GroupSet {
		return groupgate.NewGroupSet(groups...)
	}
}

// AsRoot adds the root group, which bypasses every permission check. Scope
// it tightly: prefer Run over a bare Override so restoration is guaranteed.
func AsRoot() Modifier {
	root, _ := groupgate.NewGroup("Root", groupgate.TypeSystem, groupgate.WithName(groupgate.GroupRoot))
	return AddGroups(root)
}

// Override pushes the current group set onto the session's override stack
// and installs the modified copy. The returned restore function pops the
// stack and reinstates exactly the state present when Override was called;
// it also discards any overrides leaked above it, keeping the stack
// strictly LIFO.
//
// Callers are responsible for invoking restore on all paths; Run and Sudo
// do this via defer and should be preferred.
func (s *Session) Override(m Modifier) (restore func()) {
	prev := s.groups
	depth := len(s.overrides)
	s.overrides = append(s.overrides, prev)
	s.groups = m(prev.Clone())

	return func() {
		s.overrides = s.overrides[:depth]
		s.groups = prev
	}
}

// OverrideDepth returns the number of active overrides.
func (s *Session) OverrideDepth() int {
	return len(s.overrides)
}

// Run executes fn with the override active and restores the previous state
// unconditionally, including when fn returns an error or panics.
func (s *Session) Run(m Modifier, fn func() error) error {
	restore := s.Override(m)
	defer restore()
	return fn()
}

// Sudo activates the override only if the session currently satisfies the
// requirement, returning ErrPermissionDenied otherwise. This gates
// elevation ("run as root if the caller holds admin") on the pre-elevation
// state.
func (s *Session) Sudo(req groupgate.Requirement, m Modifier, fn func() error) error {
	if err := groupgate.Require(s.groups, req); err != nil {
		return fmt.Errorf("sudo: %w", err)
	}
	return s.Run(m, fn)
}
