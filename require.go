package groupgate

import "fmt"

// Requirement is a composable boolean guard over group membership, used to
// gate non-data operations ("must be admin or hold the push capability").
// Tests are pure: evaluation may short-circuit but must not rely on side
// effects.
type Requirement interface {
	// Test reports whether the active group set satisfies the requirement.
	Test(groups GroupSet) bool
}

type hasGroup string

func (r hasGroup) Test(groups GroupSet) bool {
	return groups.Has(string(r))
}

func (r hasGroup) String() string {
	return string(r)
}

// HasGroup is the atomic requirement: the active set must contain a group
// with the given name.
func HasGroup(name string) Requirement {
	return hasGroup(name)
}

type andReq struct {
	left, right Requirement
}

func (r andReq) Test(groups GroupSet) bool {
	return r.left.Test(groups) && r.right.Test(groups)
}

func (r andReq) String() string {
	return fmt.Sprintf("(%v & %v)", r.left, r.right)
}

// And requires both sides to hold.
func And(left, right Requirement) Requirement {
	return andReq{left: left, right: right}
}

type orReq struct {
	left, right Requirement
}

func (r orReq) Test(groups GroupSet) bool {
	return r.left.Test(groups) || r.right.Test(groups)
}

func (r orReq) String() string {
	return fmt.Sprintf("(%v | %v)", r.left, r.right)
}

// Or requires at least one side to hold.
func Or(left, right Requirement) Requirement {
	return orReq{left: left, right: right}
}

// Require returns ErrPermissionDenied (wrapped with the requirement) when
// the active set does not satisfy req. Guarded operations fail loudly; they
// are never silently skipped.
func Require(groups GroupSet, req Requirement) error {
	if !req.Test(groups) {
		return fmt.Errorf("requires %v: %w", req, ErrPermissionDenied)
	}
	return nil
}

// Guard runs fn only if the active set satisfies req, returning
// ErrPermissionDenied otherwise. This is the guard-and-run form of
// Require for wrapping whole operations:
//
//	err := groupgate.Guard(sess.Groups(), groupgate.Or(
//		groupgate.HasGroup(groupgate.GroupAdmin),
//		groupgate.HasGroup(groupgate.GroupPush),
//	), func() error {
//		return deliverEvent(ctx, ev)
//	})
func Guard(groups GroupSet, req Requirement, fn func() error) error {
	if err := Require(groups, req); err != nil {
		return err
	}
	return fn()
}
