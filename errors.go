package groupgate

import "errors"

// Sentinel errors for the failure modes of the engine. Authorization
// failures are never retried automatically; they indicate either a caller
// without the required groups (ErrPermissionDenied), a recoverable request
// shape problem (ErrTooManyPermissions), or a programmer error in the
// entity or scope configuration (ErrMisconfigured, ErrInvalidGroup).
//
// Read-path filtering never raises: an unauthorized query degrades to a
// matches-nothing predicate so row existence is not leaked.
var (
	// ErrPermissionDenied is returned when an action is attempted without
	// the required groups. Write paths surface it to the caller; read paths
	// filter silently instead.
	ErrPermissionDenied = errors.New("groupgate: permission denied")

	// ErrTooManyPermissions is returned when more group names are assigned
	// to a permission kind than its slot capacity allows. Callers can
	// recover by reformulating the request.
	ErrTooManyPermissions = errors.New("groupgate: too many permission values")

	// ErrMisconfigured is returned when an unknown action is resolved or a
	// scope, group, or entity type is referenced that was never registered.
	// This is a programmer error, not a user-facing condition.
	ErrMisconfigured = errors.New("groupgate: misconfigured capability")

	// ErrInvalidGroup is returned when a group is constructed without
	// enough information to derive a name: neither an explicit name nor a
	// (display name, type) pair.
	ErrInvalidGroup = errors.New("groupgate: invalid group definition")
)

// IsPermissionDenied returns true if err is or wraps ErrPermissionDenied.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsTooManyPermissions returns true if err is or wraps ErrTooManyPermissions.
func IsTooManyPermissions(err error) bool {
	return errors.Is(err, ErrTooManyPermissions)
}

// IsMisconfigured returns true if err is or wraps ErrMisconfigured.
func IsMisconfigured(err error) bool {
	return errors.Is(err, ErrMisconfigured)
}

// IsInvalidGroup returns true if err is or wraps ErrInvalidGroup.
func IsInvalidGroup(err error) bool {
	return errors.Is(err, ErrInvalidGroup)
}
