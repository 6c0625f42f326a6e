// Package token serializes capability sessions into and out of JWT claims
// at the boundary with the transport layer.
//
// The codec fixes only the data shape carried inside a token; the signing
// method and key material are supplied by the caller (the issuing
// authority). A decoded session is usable for the current request as-is,
// but refresh paths must re-flatten through session.Build rather than
// trusting the carried group list.
package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/groupgate/groupgate"
	"github.com/groupgate/groupgate/session"
)

// ProfileClaim is the wire form of the session's principal.
type ProfileClaim struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AppClaim is the wire form of the active application context.
type AppClaim struct {
	ID      string         `json:"id"`
	AppID   string         `json:"app_id"`
	AppSlug string         `json:"app_slug"`
	Config  map[string]any `json:"config"`
}

// GroupClaim is the wire form of one held group. Type carries the
// single-character code ("0", "s", "f", "d").
type GroupClaim struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
}

// Claims is the session payload embedded in a JWT.
type Claims struct {
	jwt.RegisteredClaims

	Profile            *ProfileClaim       `json:"profile"`
	App                *AppClaim           `json:"app"`
	Groups             []GroupClaim        `json:"groups"`
	DefaultObjectPerms map[string][]string `json:"default_object_perms,omitempty"`
	Environment        map[string]any      `json:"environment,omitempty"`
}

// FromSession converts a session into claims, with groups in name order.
// Registered claims (issuer, expiry, ...) are left for the caller to fill.
func FromSession(s *session.Session) *Claims {
	c := &Claims{
		DefaultObjectPerms: s.DefaultObjectPerms,
		Environment:        s.Environment,
	}
	if s.Profile != nil {
		c.Profile = &ProfileClaim{
			ID:    s.Profile.ID.String(),
			Email: s.Profile.Email,
		}
	}
	if s.App != nil {
		c.App = &AppClaim{
			ID:      s.App.ID.String(),
			AppID:   s.App.AppID.String(),
			AppSlug: s.App.AppSlug,
			Config:  s.App.Config,
		}
	}
	for _, g := range s.Groups().Groups() {
		c.Groups = append(c.Groups, GroupClaim{
			Name:        g.Name,
			DisplayName: g.DisplayName,
			Type:        g.Type.String(),
		})
	}
	return c
}

// Session reconstructs a session from decoded claims. Groups are rebuilt
// with explicit names, so tokens minted before a display-name change still
// grant the same capabilities.
func (c *Claims) Session() (*session.Session, error) {
	groups := groupgate.NewGroupSet()
	for _, gc := range c.Groups {
		g, err := groupgate.NewGroup(gc.DisplayName, groupgate.GroupType(gc.Type),
			groupgate.WithName(gc.Name))
		if err != nil {
			return nil, fmt.Errorf("group claim %q: %w", gc.Name, err)
		}
		groups.Add(g)
	}

	var opts []session.Option
	if c.Profile != nil {
		id, err := uuid.Parse(c.Profile.ID)
		if err != nil {
			return nil, fmt.Errorf("profile claim id: %w", err)
		}
		opts = append(opts, session.WithProfile(session.Profile{ID: id, Email: c.Profile.Email}))
	}
	if c.App != nil {
		id, err := uuid.Parse(c.App.ID)
		if err != nil {
			return nil, fmt.Errorf("app claim id: %w", err)
		}
		appID, err := uuid.Parse(c.App.AppID)
		if err != nil {
			return nil, fmt.Errorf("app claim app_id: %w", err)
		}
		opts = append(opts, session.WithApp(session.App{
			ID:      id,
			AppID:   appID,
			AppSlug: c.App.AppSlug,
			Config:  c.App.Config,
		}))
	}
	if c.DefaultObjectPerms != nil {
		opts = append(opts, session.WithDefaultObjectPerms(c.DefaultObjectPerms))
	}
	if c.Environment != nil {
		opts = append(opts, session.WithEnvironment(c.Environment))
	}

	return session.New(groups, opts...), nil
}

// Encode signs the session payload with the caller-supplied method and key.
func Encode(s *session.Session, method jwt.SigningMethod, key any) (string, error) {
	signed, err := jwt.NewWithClaims(method, FromSession(s)).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Decode verifies a token with the caller-supplied key function and
// reconstructs the session it carries.
func Decode(raw string, keyFunc jwt.Keyfunc) (*session.Session, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, keyFunc)
	if err != nil {
		return nil, fmt.Errorf("parsing session token: %w", err)
	}
	if !tok.Valid {
		return nil, fmt.Errorf("parsing session token: token invalid")
	}
	return claims.Session()
}
