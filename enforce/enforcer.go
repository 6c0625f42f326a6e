package enforce

import (
	"context"
	"fmt"

	"github.com/groupgate/groupgate"
	"github.com/groupgate/groupgate/permset"
)

// Enforcer evaluates permission decisions against the registry. Enforcers
// are lightweight and safe to create per request; they hold no state beyond
// the registry handle and the decision override.
type Enforcer struct {
	registry           *Registry
	decision           Decision
	useContextDecision bool
}

// Option configures an Enforcer.
type Option func(*Enforcer)

// WithDecision sets a decision override that bypasses evaluation.
// This is intentionally separate from context-based overrides to make the
// bypass explicit at construction time.
func WithDecision(d Decision) Option {
	return func(e *Enforcer) {
		e.decision = d
	}
}

// WithContextDecision enables context-based decision overrides. When
// enabled, checks consult GetDecisionContext(ctx) before evaluating.
//
// Decision precedence when enabled:
//  1. Context decision (via WithDecisionContext)
//  2. Enforcer decision (via WithDecision)
//  3. Normal evaluation
func WithContextDecision() Option {
	return func(e *Enforcer) {
		e.useContextDecision = true
	}
}

// New creates an Enforcer over the given registry.
func New(registry *Registry, opts ...Option) *Enforcer {
	e := &Enforcer{
		registry: registry,
		decision: DecisionUnset,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// override returns the effective decision override, if any.
func (e *Enforcer) override(ctx context.Context) Decision {
	if e.useContextDecision {
		if d := GetDecisionContext(ctx); d != DecisionUnset {
			return d
		}
	}
	return e.decision
}

// Check returns true if the active groups authorize action on an entity of
// the given type whose current slot values are slots. Pass nil slots for
// class-level checks (insert, or actions whose object kind resolves to
// none); a nil slots value can never satisfy a declared object-level kind.
//
// The decision:
//  1. An empty group set denies.
//  2. The root group allows.
//  3. The action resolves through the class's action map; unknown actions
//     are a configuration error.
//  4. A declared scope denies the whole class when the caller lacks the
//     scope's group for the action's scope kind, regardless of slots.
//  5. An action without an object kind allows.
//  6. An object kind the class never declared is not enforced: allow.
//  7. Otherwise allow iff the slot values for the kind intersect the
//     active groups by name.
func (e *Enforcer) Check(ctx context.Context, groups groupgate.GroupSet, action, entityType string, slots *permset.PermissionSet) (bool, error) {
	if d := e.override(ctx); d != DecisionUnset {
		return d == DecisionAllow, nil
	}

	cfg, err := e.registry.Lookup(entityType)
	if err != nil {
		return false, err
	}
	return decide(groups, action, cfg, slots)
}

// decide is the pure decision function shared by Check and Criterion.
func decide(groups groupgate.GroupSet, action string, cfg EntityConfig, slots *permset.PermissionSet) (bool, error) {
	if len(groups) == 0 {
		return false, nil
	}
	if groups.Has(groupgate.GroupRoot) {
		return true, nil
	}

	ap, ok := cfg.Actions[action]
	if !ok {
		return false, fmt.Errorf("unknown action %q on entity type %q: %w",
			action, cfg.Type, groupgate.ErrMisconfigured)
	}

	// Scope gate: coarser than object slots and checked first. A scope
	// that does not define the resolved kind can never be satisfied, which
	// hides the class entirely.
	if cfg.Scope != nil && ap.ScopeKind != "" {
		gate, defined := cfg.Scope.PermGroup(ap.ScopeKind)
		if !defined || !groups.Has(gate) {
			return false, nil
		}
	}

	if ap.ObjectKind == "" {
		return true, nil
	}
	if !cfg.DeclaresKind(ap.ObjectKind) {
		return true, nil
	}

	if slots == nil {
		return false, nil
	}
	for _, name := range slots.Get(ap.ObjectKind) {
		if groups.Has(name) {
			return true, nil
		}
	}
	return false, nil
}

// Must panics if the check fails or errors. Use for internal invariants
// where unauthorized access indicates a bug in the calling code; prefer
// Check where denial is a user-facing condition.
func (e *Enforcer) Must(ctx context.Context, groups groupgate.GroupSet, action, entityType string, slots *permset.PermissionSet) {
	ok, err := e.Check(ctx, groups, action, entityType, slots)
	if err != nil {
		panic(fmt.Sprintf("enforce.Must: %v", err))
	}
	if !ok {
		panic(fmt.Sprintf("enforce.Must: groups %v lack %s on %s", groups.Names(), action, entityType))
	}
}
