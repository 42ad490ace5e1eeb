// Package socialgraph provides the in-memory social graph store.
package socialgraph

import (
	"context"
	"sync"
)

// MemStore holds friendships and group memberships. Friendship edges are
// one-directional: AddFriend(a, b) records b on the edge list owned by a,
// mirroring how acceptance is stored upstream. It implements
// social.GraphStore.
type MemStore struct {
	mu         sync.RWMutex
	friends    map[string]map[string]struct{} // owner -> accepted friend ids
	members    map[string]map[string]struct{} // group -> member ids
	userGroups map[string]map[string]struct{} // user -> group ids
}

// NewMemStore creates an empty social graph store.
func NewMemStore(_ context.Context) *MemStore {
	return &MemStore{
		friends:    make(map[string]map[string]struct{}),
		members:    make(map[string]map[string]struct{}),
		userGroups: make(map[string]map[string]struct{}),
	}
}

// AddFriend records friendID as an accepted friend on ownerID's edge.
func (s *MemStore) AddFriend(_ context.Context, ownerID, friendID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.friends[ownerID] == nil {
		s.friends[ownerID] = make(map[string]struct{})
	}
	s.friends[ownerID][friendID] = struct{}{}
}

// AddGroupMember records userID as a member of groupID.
func (s *MemStore) AddGroupMember(_ context.Context, groupID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.members[groupID] == nil {
		s.members[groupID] = make(map[string]struct{})
	}
	s.members[groupID][userID] = struct{}{}
	if s.userGroups[userID] == nil {
		s.userGroups[userID] = make(map[string]struct{})
	}
	s.userGroups[userID][groupID] = struct{}{}
}

// FriendIDs returns the accepted friend ids on the edge owned by userID.
func (s *MemStore) FriendIDs(_ context.Context, userID string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySet(s.friends[userID]), nil
}

// GroupIDs returns the ids of every group userID belongs to.
func (s *MemStore) GroupIDs(_ context.Context, userID string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySet(s.userGroups[userID]), nil
}

// GroupMemberIDs returns the member ids of groupID.
func (s *MemStore) GroupMemberIDs(_ context.Context, groupID string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySet(s.members[groupID]), nil
}

func copySet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}
