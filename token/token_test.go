package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupgate/groupgate"
	"github.com/groupgate/groupgate/session"
	"github.com/groupgate/groupgate/token"
)

var testKey = []byte("test-signing-key")

func testSession(t *testing.T) *session.Session {
	t.Helper()

	staff, err := groupgate.NewGroup("Staff", groupgate.TypeSystem, groupgate.WithName(groupgate.GroupStaff))
	require.NoError(t, err)
	team, err := groupgate.NewGroup("Team", groupgate.TypeFeature)
	require.NoError(t, err)
	scoped, err := groupgate.NewGroup("widget-read", groupgate.TypeScope,
		groupgate.WithScopeTag("widget", groupgate.PermRead))
	require.NoError(t, err)

	return session.New(
		groupgate.NewGroupSet(staff, team, scoped),
		session.WithProfile(session.Profile{ID: uuid.New(), Email: "dev@example.com"}),
		session.WithApp(session.App{
			ID:      uuid.New(),
			AppID:   uuid.New(),
			AppSlug: "reports",
			Config:  map[string]any{"theme": "dark"},
		}),
		session.WithDefaultObjectPerms(map[string][]string{
			groupgate.PermRead: {"d-owner"},
		}),
		session.WithEnvironment(map[string]any{"locale": "en"}),
	)
}

func TestFromSessionShape(t *testing.T) {
	s := testSession(t)
	claims := token.FromSession(s)

	require.NotNil(t, claims.Profile)
	assert.Equal(t, s.Profile.ID.String(), claims.Profile.ID)
	assert.Equal(t, "dev@example.com", claims.Profile.Email)

	require.NotNil(t, claims.App)
	assert.Equal(t, "reports", claims.App.AppSlug)

	// Groups in name order, carrying single-character type codes.
	require.Len(t, claims.Groups, 3)
	assert.Equal(t, "f-team", claims.Groups[0].Name)
	assert.Equal(t, "f", claims.Groups[0].Type)
	assert.Equal(t, "s-widget-read", claims.Groups[1].Name)
	assert.Equal(t, "s", claims.Groups[1].Type)
	assert.Equal(t, "staff", claims.Groups[2].Name)
	assert.Equal(t, "0", claims.Groups[2].Type)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := testSession(t)

	raw, err := token.Encode(s, jwt.SigningMethodHS256, testKey)
	require.NoError(t, err)

	decoded, err := token.Decode(raw, func(*jwt.Token) (any, error) {
		return testKey, nil
	})
	require.NoError(t, err)

	assert.Equal(t, s.Groups().Names(), decoded.Groups().Names())
	require.NotNil(t, decoded.Profile)
	assert.Equal(t, s.Profile.ID, decoded.Profile.ID)
	assert.Equal(t, s.Profile.Email, decoded.Profile.Email)
	require.NotNil(t, decoded.App)
	assert.Equal(t, s.App.AppID, decoded.App.AppID)
	assert.Equal(t, s.App.AppSlug, decoded.App.AppSlug)
	assert.Equal(t, s.DefaultObjectPerms, decoded.DefaultObjectPerms)
	assert.Equal(t, s.Environment, decoded.Environment)

	// Type codes survive the trip.
	staff := decoded.Groups()["staff"]
	assert.Equal(t, groupgate.TypeSystem, staff.Type)
}

func TestDecodeRejectsWrongKey(t *testing.T) {
	raw, err := token.Encode(testSession(t), jwt.SigningMethodHS256, testKey)
	require.NoError(t, err)

	_, err = token.Decode(raw, func(*jwt.Token) (any, error) {
		return []byte("other-key"), nil
	})
	assert.Error(t, err)
}

func TestDecodeRejectsExpired(t *testing.T) {
	claims := token.FromSession(testSession(t))
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
	require.NoError(t, err)

	_, err = token.Decode(raw, func(*jwt.Token) (any, error) {
		return testKey, nil
	})
	assert.Error(t, err)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := token.Decode("not-a-token", func(*jwt.Token) (any, error) {
		return testKey, nil
	})
	assert.Error(t, err)
}
