package groupgate

// Well-known group names. These are seeded by store.SeedWellKnown with
// explicit names (bypassing the type-prefix derivation) and are not
// user-creatable under these names.
const (
	// GroupRoot bypasses all permission checks.
	GroupRoot = "root"

	// GroupAdmin marks administrative users. Unlike root it does not bypass
	// checks; it is granted to slots and requirements like any other group.
	GroupAdmin = "admin"

	// GroupStaff marks internal staff.
	GroupStaff = "staff"

	// GroupEverybody is implicitly held by every session.
	GroupEverybody = "everybody"

	// GroupUser marks ordinary authenticated users.
	GroupUser = "user"

	// GroupNobody is held by no session; granting it to a slot makes the
	// slot unsatisfiable by anyone but root.
	GroupNobody = "nobody"

	// GroupPush is the service-to-service capability.
	GroupPush = "push"
)

// WellKnownGroups returns the seed set of system groups, without IDs.
// The store assigns identities when seeding.
func WellKnownGroups() []Group {
	wellKnown := []struct {
		name    string
		display string
	}{
		{GroupRoot, "Root"},
		{GroupAdmin, "Admin"},
		{GroupStaff, "Staff"},
		{GroupEverybody, "Everybody"},
		{GroupUser, "User"},
		{GroupNobody, "Nobody"},
		{GroupPush, "Push"},
	}

	groups := make([]Group, 0, len(wellKnown))
	for _, wk := range wellKnown {
		// Construction with an explicit name cannot fail.
		g, _ := NewGroup(wk.display, TypeSystem, WithName(wk.name))
		groups = append(groups, g)
	}
	return groups
}
