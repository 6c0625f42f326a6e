package enforce

import (
	"context"
	"fmt"

	"github.com/groupgate/groupgate"
	"github.com/groupgate/groupgate/permset"
)

// Write-path authorization hooks. Each evaluates the decision for its
// action and returns ErrPermissionDenied on deny; the caller runs the hook
// inside the same transaction as the mutation so check and write commit or
// fail together. Denials are fatal to the operation and never retried.

// AuthorizeInsert evaluates the class-level criterion for insert before
// the row exists. On deny nothing must be persisted.
func (e *Enforcer) AuthorizeInsert(ctx context.Context, groups groupgate.GroupSet, entityType string) error {
	return e.authorize(ctx, groups, ActionInsert, entityType, nil)
}

// AuthorizeUpdate evaluates update against the entity's permission state
// as it was loaded, not the state being written. This is the
// self-escalation guard: a caller cannot use a single update to grant
// itself write permission and exploit it within the same mutation. Callers
// must pass the slots read from storage before applying any changes.
func (e *Enforcer) AuthorizeUpdate(ctx context.Context, groups groupgate.GroupSet, entityType string, loaded *permset.PermissionSet) error {
	return e.authorize(ctx, groups, ActionUpdate, entityType, loaded)
}

// AuthorizeDelete evaluates delete against the entity's current persisted
// slot state.
func (e *Enforcer) AuthorizeDelete(ctx context.Context, groups groupgate.GroupSet, entityType string, loaded *permset.PermissionSet) error {
	return e.authorize(ctx, groups, ActionDelete, entityType, loaded)
}

func (e *Enforcer) authorize(ctx context.Context, groups groupgate.GroupSet, action, entityType string, slots *permset.PermissionSet) error {
	ok, err := e.Check(ctx, groups, action, entityType, slots)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s on %s: %w", action, entityType, groupgate.ErrPermissionDenied)
	}
	return nil
}

// ApplyDefaults fills the unset declared kinds of a new entity's slots
// from the session's default object perms. Explicitly configured kinds are
// left untouched; defaulting happens only at insert time and only here,
// never inside the slot mechanism.
func ApplyDefaults(defaults map[string][]string, cfg EntityConfig, slots *permset.PermissionSet) error {
	for _, kind := range cfg.Kinds {
		if len(slots.Get(kind)) > 0 {
			continue
		}
		names, ok := defaults[kind]
		if !ok || len(names) == 0 {
			continue
		}
		if err := slots.Set(kind, names...); err != nil {
			return fmt.Errorf("defaulting kind %q: %w", kind, err)
		}
	}
	return nil
}
