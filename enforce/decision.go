package enforce

import "context"

// Decision allows bypassing permission evaluation for trusted maintenance
// code and tests without touching the group graph or any entity's slots.
//
// The mechanism has two layers:
//  1. Enforcer-level: set via WithDecision() at construction
//  2. Context-level: set via WithDecisionContext() and opt-in via
//     WithContextDecision()
//
// Context-based decisions are opt-in by design: an Enforcer consults them
// only when explicitly constructed to, so a bypass installed by one code
// path cannot leak into unrelated middleware. Pair context decisions with
// the session package's override stack when the bypass must be scoped to a
// block of maintenance code.
type Decision int

type decisionContextKey struct{}

var decisionKey = decisionContextKey{}

const (
	// DecisionUnset means no override - evaluate the decision normally.
	DecisionUnset Decision = iota

	// DecisionAllow bypasses evaluation and allows everything. Use for
	// trusted maintenance tooling or testing authorized code paths.
	DecisionAllow

	// DecisionDeny bypasses evaluation and denies everything. Use for
	// testing unauthorized code paths without fixture setup.
	DecisionDeny
)

// WithDecisionContext returns a new context carrying the given decision.
//
// The Enforcer does NOT consult this value unless it was constructed with
// WithContextDecision. Prefer the WithDecision option for explicit control;
// use context decisions when the override must propagate through layers
// where passing an Enforcer is impractical.
func WithDecisionContext(ctx context.Context, decision Decision) context.Context {
	return context.WithValue(ctx, decisionKey, decision)
}

// GetDecisionContext retrieves the decision from context, or DecisionUnset
// if none is set.
func GetDecisionContext(ctx context.Context) Decision {
	if decision, ok := ctx.Value(decisionKey).(Decision); ok {
		return decision
	}
	return DecisionUnset
}
