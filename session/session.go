// Package session implements the capability session: the flattened,
// immutable-per-request set of groups, identity, and default permissions a
// caller currently holds, together with the stack-disciplined override
// mechanism for temporarily elevating or replacing groups.
//
// Sessions are request-scoped values threaded through call parameters.
// There is no ambient "current session"; concurrent requests therefore
// cannot share an override stack. A session is not safe for concurrent use
// from multiple goroutines.
package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/groupgate/groupgate"
)

// Profile identifies the authenticated principal carried by a session.
type Profile struct {
	ID    uuid.UUID
	Email string
}

// App is the optional active application context. Installed applications
// are group-bearing principals: activating one adds its granted groups to
// the session at build time.
type App struct {
	ID      uuid.UUID
	AppID   uuid.UUID
	AppSlug string
	Config  map[string]any
}

// Directory resolves groups for session construction: the membership
// adjacency for flattening plus name lookup for well-known groups. The
// store package implements it.
type Directory interface {
	groupgate.MemberSource
	GroupByName(ctx context.Context, name string) (groupgate.Group, error)
}

// Session is the capability token's in-memory form. The flattened group
// set is computed once at construction or refresh and treated as immutable
// for the rest of the request; the only sanctioned mutation path is the
// override stack (Override, Run, Sudo).
type Session struct {
	Profile *Profile
	App     *App

	// DefaultObjectPerms maps each permission kind to the group names
	// assigned to a new entity's slots when the caller omits them -
	// conventionally the profile's private "group of one".
	DefaultObjectPerms map[string][]string

	// Environment carries opaque caller preferences.
	Environment map[string]any

	// Save marks the session for (re-)persistence as a token. Only the
	// issuing authority acts on it; everything else treats sessions as
	// read-mostly.
	Save bool

	groups    groupgate.GroupSet
	overrides []groupgate.GroupSet
}

// Option configures a session at construction.
type Option func(*Session)

// WithProfile sets the session's principal.
func WithProfile(p Profile) Option {
	return func(s *Session) { s.Profile = &p }
}

// WithApp sets the active application context.
func WithApp(a App) Option {
	return func(s *Session) { s.App = &a }
}

// WithDefaultObjectPerms sets the default slot values for new entities.
func WithDefaultObjectPerms(defaults map[string][]string) Option {
	return func(s *Session) { s.DefaultObjectPerms = defaults }
}

// WithEnvironment sets the opaque preference map.
func WithEnvironment(env map[string]any) Option {
	return func(s *Session) { s.Environment = env }
}

// WithSave marks the session for persistence by the issuing authority.
func WithSave() Option {
	return func(s *Session) { s.Save = true }
}

// New wraps an already-flattened group set in a session. Token decoding
// uses this; anything constructing a session from root sources should use
// Build so the set is re-derived rather than trusted.
func New(groups groupgate.GroupSet, opts ...Option) *Session {
	s := &Session{groups: groups.Clone()}
	for _, opt := range opts {
		opt(s)
	}
	if s.groups == nil {
		s.groups = groupgate.NewGroupSet()
	}
	return s
}

// Groups returns the currently active flattened group set. Callers must
// treat it as read-only; the override stack is the only sanctioned way to
// change a live session's groups.
func (s *Session) Groups() groupgate.GroupSet {
	return s.groups
}

// Builder assembles the inputs Build flattens.
type Builder struct {
	profile       *Profile
	profileGroups []groupgate.Group
	app           *App
	appGroups     []groupgate.Group
	opts          []Option
	expandOpts    []groupgate.ExpandOption
}

// NewBuilder returns an empty session builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// ForProfile sets the principal and the groups directly granted to it
// through its licenses.
func (b *Builder) ForProfile(p Profile, granted ...groupgate.Group) *Builder {
	b.profile = &p
	b.profileGroups = granted
	return b
}

// ForApp sets the active application and the groups granted to it.
func (b *Builder) ForApp(a App, granted ...groupgate.Group) *Builder {
	b.app = &a
	b.appGroups = granted
	return b
}

// WithOptions appends session options applied after flattening.
func (b *Builder) WithOptions(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// WithExpandOptions configures the graph walk, e.g. a depth bound for
// latency-sensitive paths.
func (b *Builder) WithExpandOptions(opts ...groupgate.ExpandOption) *Builder {
	b.expandOpts = append(b.expandOpts, opts...)
	return b
}

// Build flattens the session's group set from root sources: the universal
// everybody group, the expansion of every group granted to the profile,
// and, if an application context is set, the expansion of every group
// granted to that application. The result is de-duplicated by group name.
//
// Build never trusts a caller-supplied flattened list; refresh paths call
// it again rather than reusing the set carried in a token.
func (b *Builder) Build(ctx context.Context, dir Directory) (*Session, error) {
	everybody, err := dir.GroupByName(ctx, groupgate.GroupEverybody)
	if err != nil {
		return nil, fmt.Errorf("resolving %s group: %w", groupgate.GroupEverybody, err)
	}
	groups := groupgate.NewGroupSet(everybody)

	fromProfile, err := groupgate.ExpandAll(ctx, dir, b.profileGroups, b.expandOpts...)
	if err != nil {
		return nil, fmt.Errorf("expanding profile groups: %w", err)
	}
	groups = groups.Union(fromProfile)

	if b.app != nil {
		fromApp, err := groupgate.ExpandAll(ctx, dir, b.appGroups, b.expandOpts...)
		if err != nil {
			return nil, fmt.Errorf("expanding app groups: %w", err)
		}
		groups = groups.Union(fromApp)
	}

	s := New(groups, b.opts...)
	if b.profile != nil {
		s.Profile = b.profile
	}
	if b.app != nil {
		s.App = b.app
	}
	return s, nil
}

// Scopes returns the scopes reconstructed from the session's currently
// active scope-tagged groups.
func (s *Session) Scopes() []groupgate.Scope {
	return groupgate.ScopesFromGroups(s.groups)
}
