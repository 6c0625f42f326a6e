package enforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/groupgate/groupgate"
	"github.com/groupgate/groupgate/permset"
)

// Criterion is a parameterized SQL predicate suitable for ANDing into the
// WHERE clause of every query against a permissioned entity class. Rows an
// unauthorized caller may not see simply do not match; filtering never
// raises.
type Criterion struct {
	SQL  string
	Args []any
}

// Predicates for the short-circuit outcomes. Matching nothing is the
// correct denial behavior for reads: it does not leak row existence.
const (
	matchNone = "1 = 0"
	matchAll  = "1 = 1"
)

// MatchesNone reports whether the criterion denies the whole class.
func (c Criterion) MatchesNone() bool {
	return c.SQL == matchNone
}

// MatchesAll reports whether the criterion passes every row.
func (c Criterion) MatchesAll() bool {
	return c.SQL == matchAll
}

// Criterion compiles the decision for action on the entity class into a
// filter predicate for the given dialect. The class-level steps (empty
// groups, root bypass, scope gate, object-kind resolution) short-circuit
// to a constant predicate; otherwise the predicate matches rows whose slot
// columns for the object kind intersect the active groups.
//
// Placeholder numbering starts at argOffset+1, so the criterion can be
// appended to a query that already binds arguments:
//
//	crit, _ := enf.Criterion(ctx, groups, enforce.ActionSelect, "widget", groupgate.DialectPostgres, 1)
//	rows, _ := db.QueryContext(ctx,
//		"SELECT id FROM widgets WHERE tenant = $1 AND "+crit.SQL,
//		append([]any{tenant}, crit.Args...)...)
func (e *Enforcer) Criterion(ctx context.Context, groups groupgate.GroupSet, action, entityType string, dialect groupgate.Dialect, argOffset int) (Criterion, error) {
	cfg, err := e.registry.Lookup(entityType)
	if err != nil {
		return Criterion{}, err
	}

	if d := e.override(ctx); d != DecisionUnset {
		if d == DecisionAllow {
			return Criterion{SQL: matchAll}, nil
		}
		return Criterion{SQL: matchNone}, nil
	}

	// Class-level evaluation with no slot state: an allow here means
	// either a short-circuit (root) or that the object kind is not
	// enforced, so every row matches. A deny with a declared object kind
	// falls through to the per-row predicate instead.
	ap, ok := cfg.Actions[action]
	if !ok {
		return Criterion{}, fmt.Errorf("unknown action %q on entity type %q: %w",
			action, cfg.Type, groupgate.ErrMisconfigured)
	}

	allowed, err := decide(groups, action, cfg, nil)
	if err != nil {
		return Criterion{}, err
	}
	if allowed {
		return Criterion{SQL: matchAll}, nil
	}
	if ap.ObjectKind == "" || !cfg.DeclaresKind(ap.ObjectKind) || !classGateOpen(groups, cfg, ap) {
		return Criterion{SQL: matchNone}, nil
	}

	names := groups.Names()
	if len(names) == 0 {
		return Criterion{SQL: matchNone}, nil
	}

	// (kind_0 IN (...) OR kind_1 IN (...))
	var (
		clauses []string
		args    []any
	)
	n := argOffset
	for _, col := range permset.Columns(ap.ObjectKind, cfg.Capacity) {
		placeholders := make([]string, len(names))
		for i, name := range names {
			n++
			placeholders[i] = dialect.Placeholder(n)
			args = append(args, name)
		}
		clauses = append(clauses, fmt.Sprintf("%s IN (%s)", col, strings.Join(placeholders, ", ")))
	}

	return Criterion{
		SQL:  "(" + strings.Join(clauses, " OR ") + ")",
		Args: args,
	}, nil
}

// classGateOpen reports whether the class-level steps short of the slot
// intersection pass: non-empty groups and, for scoped classes, possession
// of the scope gate group.
func classGateOpen(groups groupgate.GroupSet, cfg EntityConfig, ap ActionPerms) bool {
	if len(groups) == 0 {
		return false
	}
	if cfg.Scope != nil && ap.ScopeKind != "" {
		gate, defined := cfg.Scope.PermGroup(ap.ScopeKind)
		if !defined || !groups.Has(gate) {
			return false
		}
	}
	return true
}
