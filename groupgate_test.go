package groupgate_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupgate/groupgate"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Widget Read", "widget-read"},
		{"Widget  Read!", "widget-read"},
		{"  spaced out  ", "spaced-out"},
		{"already-slugged", "already-slugged"},
		{"MiXeD CaSe 123", "mixed-case-123"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, groupgate.Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestDeriveName(t *testing.T) {
	assert.Equal(t, "s-widget-read", groupgate.DeriveName(groupgate.TypeScope, "Widget Read"))
	assert.Equal(t, "f-billing", groupgate.DeriveName(groupgate.TypeFeature, "Billing"))
	assert.Equal(t, "", groupgate.DeriveName(groupgate.TypeFeature, "!!!"))
}

func TestNewGroupDerivesName(t *testing.T) {
	g, err := groupgate.NewGroup("Widget Admins", groupgate.TypeFeature)
	require.NoError(t, err)

	assert.Equal(t, "f-widget-admins", g.Name)
	assert.Equal(t, "Widget Admins", g.DisplayName)
	assert.Equal(t, groupgate.TypeFeature, g.Type)
}

func TestNewGroupExplicitName(t *testing.T) {
	g, err := groupgate.NewGroup("Root", groupgate.TypeSystem, groupgate.WithName("root"))
	require.NoError(t, err)
	assert.Equal(t, "root", g.Name)

	// Explicit names pin the name: later display-name or type changes do
	// not re-derive.
	g.SetDisplayName("Superuser")
	assert.Equal(t, "root", g.Name)
	g.SetType(groupgate.TypeFeature)
	assert.Equal(t, "root", g.Name)
}

func TestNewGroupRederivesName(t *testing.T) {
	g, err := groupgate.NewGroup("Widgets", groupgate.TypeFeature)
	require.NoError(t, err)
	require.Equal(t, "f-widgets", g.Name)

	g.SetDisplayName("Gadgets")
	assert.Equal(t, "f-gadgets", g.Name)

	g.SetType(groupgate.TypeData)
	assert.Equal(t, "d-gadgets", g.Name)
}

func TestNewGroupInvalid(t *testing.T) {
	_, err := groupgate.NewGroup("", groupgate.TypeFeature)
	assert.True(t, groupgate.IsInvalidGroup(err))

	_, err = groupgate.NewGroup("Widgets", groupgate.GroupType("x"))
	assert.True(t, groupgate.IsInvalidGroup(err))

	// An explicit name rescues an otherwise underivable group.
	_, err = groupgate.NewGroup("", groupgate.TypeFeature, groupgate.WithName("f-legacy"))
	assert.NoError(t, err)
}

func TestGroupSet(t *testing.T) {
	a, err := groupgate.NewGroup("Alpha", groupgate.TypeFeature, groupgate.WithID(uuid.New()))
	require.NoError(t, err)
	b, err := groupgate.NewGroup("Beta", groupgate.TypeFeature, groupgate.WithID(uuid.New()))
	require.NoError(t, err)

	set := groupgate.NewGroupSet(a, b, a)
	assert.Len(t, set, 2)
	assert.True(t, set.Has("f-alpha"))
	assert.True(t, set.HasAny("missing", "f-beta"))
	assert.False(t, set.HasAny("missing"))
	assert.Equal(t, []string{"f-alpha", "f-beta"}, set.Names())

	clone := set.Clone()
	c, err := groupgate.NewGroup("Gamma", groupgate.TypeFeature)
	require.NoError(t, err)
	clone.Add(c)
	assert.True(t, clone.Has("f-gamma"))
	assert.False(t, set.Has("f-gamma"), "clone must not alias the original")

	union := set.Union(groupgate.NewGroupSet(c))
	assert.Equal(t, []string{"f-alpha", "f-beta", "f-gamma"}, union.Names())
	assert.Len(t, set, 2, "union must not mutate the receiver")
}

func TestWellKnownGroups(t *testing.T) {
	groups := groupgate.WellKnownGroups()
	require.Len(t, groups, 7)

	byName := groupgate.NewGroupSet(groups...)
	for _, name := range []string{
		groupgate.GroupRoot, groupgate.GroupAdmin, groupgate.GroupStaff,
		groupgate.GroupEverybody, groupgate.GroupUser, groupgate.GroupNobody,
		groupgate.GroupPush,
	} {
		assert.True(t, byName.Has(name), "missing well-known group %q", name)
	}

	// Seeded names bypass the type-prefix derivation.
	for _, g := range groups {
		assert.Equal(t, groupgate.TypeSystem, g.Type)
		assert.NotContains(t, g.Name, "-")
	}
}
