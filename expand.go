package groupgate

import (
	"context"

	"github.com/google/uuid"
)

// MemberSource supplies the membership adjacency walked by Expand: for each
// requested group ID, the groups it is directly a member of.
//
// The interface is batched so a storage-backed implementation can serve an
// entire BFS level with one query. Implementations may omit IDs that have
// no outgoing edges from the result map.
type MemberSource interface {
	Members(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]Group, error)
}

// ExpandOption configures a call to Expand.
type ExpandOption func(*expandConfig)

type expandConfig struct {
	maxDepth int
}

// WithMaxDepth bounds traversal to at most depth hops from the start group.
// Depth 0 returns exactly the start group. Without this option the walk is
// unbounded (but still terminates on any finite graph).
func WithMaxDepth(depth int) ExpandOption {
	return func(c *expandConfig) {
		c.maxDepth = depth
	}
}

// Expand returns every group reachable from start by following is-member-of
// edges, including start itself, each exactly once regardless of how many
// paths reach it or whether the graph is cyclic.
//
// The walk is breadth-first with a visited set keyed by group identity, so
// it terminates in finite time on any finite graph and costs O(edges) of
// the reachable subgraph. Adjacency is fetched one batch per BFS level via
// src. Callers should expand at session construction or refresh time, not
// per request per entity.
//
// Groups passed to Expand must carry an identity (a non-nil ID); persisted
// groups always do.
func Expand(ctx context.Context, src MemberSource, start Group, opts ...ExpandOption) (GroupSet, error) {
	cfg := expandConfig{maxDepth: -1}
	for _, opt := range opts {
		opt(&cfg)
	}

	result := NewGroupSet(start)
	visited := map[uuid.UUID]bool{start.ID: true}
	frontier := []uuid.UUID{start.ID}

	for depth := 0; len(frontier) > 0; depth++ {
		if cfg.maxDepth >= 0 && depth >= cfg.maxDepth {
			break
		}

		adjacency, err := src.Members(ctx, frontier)
		if err != nil {
			return nil, err
		}

		var next []uuid.UUID
		for _, id := range frontier {
			for _, member := range adjacency[id] {
				if visited[member.ID] {
					continue
				}
				visited[member.ID] = true
				result.Add(member)
				next = append(next, member.ID)
			}
		}
		frontier = next
	}

	return result, nil
}

// ExpandAll expands every start group and unions the results. Used when
// flattening a profile's or application's directly granted groups into a
// session's capability set.
func ExpandAll(ctx context.Context, src MemberSource, starts []Group, opts ...ExpandOption) (GroupSet, error) {
	result := NewGroupSet()
	for _, start := range starts {
		expanded, err := Expand(ctx, src, start, opts...)
		if err != nil {
			return nil, err
		}
		result = result.Union(expanded)
	}
	return result, nil
}

// StaticSource is an in-memory MemberSource. It backs unit tests and
// expansion over groups already materialized in a token payload.
type StaticSource struct {
	members map[uuid.UUID][]Group
}

// NewStaticSource returns an empty in-memory adjacency.
func NewStaticSource() *StaticSource {
	return &StaticSource{members: make(map[uuid.UUID][]Group)}
}

// AddMember records that group is a member of memberOf.
func (s *StaticSource) AddMember(group, memberOf Group) {
	s.members[group.ID] = append(s.members[group.ID], memberOf)
}

// Members implements MemberSource.
func (s *StaticSource) Members(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]Group, error) {
	result := make(map[uuid.UUID][]Group, len(ids))
	for _, id := range ids {
		if edges, ok := s.members[id]; ok {
			result[id] = edges
		}
	}
	return result, nil
}

var _ MemberSource = (*StaticSource)(nil)
