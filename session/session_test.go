package session_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupgate/groupgate"
	"github.com/groupgate/groupgate/session"
)

// memDirectory backs builder tests: a static adjacency plus name lookup.
type memDirectory struct {
	*groupgate.StaticSource
	byName map[string]groupgate.Group
}

func newMemDirectory(t *testing.T) *memDirectory {
	t.Helper()
	d := &memDirectory{
		StaticSource: groupgate.NewStaticSource(),
		byName:       make(map[string]groupgate.Group),
	}
	for _, g := range groupgate.WellKnownGroups() {
		g.ID = uuid.New()
		d.byName[g.Name] = g
	}
	return d
}

func (d *memDirectory) add(t *testing.T, display string) groupgate.Group {
	t.Helper()
	g, err := groupgate.NewGroup(display, groupgate.TypeFeature, groupgate.WithID(uuid.New()))
	require.NoError(t, err)
	d.byName[g.Name] = g
	return g
}

func (d *memDirectory) GroupByName(_ context.Context, name string) (groupgate.Group, error) {
	g, ok := d.byName[name]
	if !ok {
		return groupgate.Group{}, groupgate.ErrInvalidGroup
	}
	return g, nil
}

func TestNewClonesGroups(t *testing.T) {
	g, err := groupgate.NewGroup("Team", groupgate.TypeFeature)
	require.NoError(t, err)
	src := groupgate.NewGroupSet(g)

	s := session.New(src)
	other, err := groupgate.NewGroup("Other", groupgate.TypeFeature)
	require.NoError(t, err)
	src.Add(other)

	assert.False(t, s.Groups().Has("f-other"), "session must not alias the caller's set")
}

func TestBuildFlattensProfileAndApp(t *testing.T) {
	dir := newMemDirectory(t)

	team := dir.add(t, "Team")
	org := dir.add(t, "Org")
	appGrant := dir.add(t, "App Grant")
	dir.AddMember(team, org)

	profile := session.Profile{ID: uuid.New(), Email: "dev@example.com"}
	app := session.App{ID: uuid.New(), AppID: uuid.New(), AppSlug: "reports"}

	s, err := session.NewBuilder().
		ForProfile(profile, team).
		ForApp(app, appGrant).
		Build(context.Background(), dir)
	require.NoError(t, err)

	// everybody always, team expanded through org, plus the app's grants.
	assert.Equal(t,
		[]string{groupgate.GroupEverybody, "f-app-grant", "f-org", "f-team"},
		s.Groups().Names())

	require.NotNil(t, s.Profile)
	assert.Equal(t, profile.ID, s.Profile.ID)
	require.NotNil(t, s.App)
	assert.Equal(t, "reports", s.App.AppSlug)
}

func TestBuildWithoutApp(t *testing.T) {
	dir := newMemDirectory(t)
	team := dir.add(t, "Team")

	s, err := session.NewBuilder().
		ForProfile(session.Profile{ID: uuid.New()}, team).
		Build(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{groupgate.GroupEverybody, "f-team"}, s.Groups().Names())
	assert.Nil(t, s.App)
}

func TestBuildAppliesOptions(t *testing.T) {
	dir := newMemDirectory(t)

	defaults := map[string][]string{groupgate.PermRead: {"d-owner"}}
	s, err := session.NewBuilder().
		WithOptions(session.WithDefaultObjectPerms(defaults), session.WithSave()).
		Build(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, defaults, s.DefaultObjectPerms)
	assert.True(t, s.Save)
}

func TestBuildExpandOptions(t *testing.T) {
	dir := newMemDirectory(t)

	team := dir.add(t, "Team")
	org := dir.add(t, "Org")
	distant := dir.add(t, "Distant")
	dir.AddMember(team, org)
	dir.AddMember(org, distant)

	s, err := session.NewBuilder().
		ForProfile(session.Profile{ID: uuid.New()}, team).
		WithExpandOptions(groupgate.WithMaxDepth(1)).
		Build(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{groupgate.GroupEverybody, "f-org", "f-team"}, s.Groups().Names())
}

func TestSessionScopes(t *testing.T) {
	widget := groupgate.NewScope("Widget")
	groups, err := groupgate.CreateScopeGroups(widget)
	require.NoError(t, err)

	s := session.New(groupgate.NewGroupSet(groups...))
	scopes := s.Scopes()
	require.Len(t, scopes, 1)
	assert.Equal(t, "widget", scopes[0].Name)
	assert.Equal(t, []string{"delete", "read", "write"}, scopes[0].Kinds())
}
