// Package entity provides point-in-time entity snapshots collected from
// update containers, plus a static directory used by the simulator and as
// the canonical test double for the client collaborator.
package entity

import (
	"github.com/gotd/td/tg"

	"github.com/gramflow/gramflow/pkg/peer"
)

// Set is a snapshot of the entities known at the moment an update was
// produced, keyed by canonical id.
type Set map[peer.ID]any

// EmptySet returns a snapshot with no entities, used for short update
// containers that carry none.
func EmptySet() Set {
	return Set{}
}

// CollectSet builds a snapshot from the Users and Chats slices of an
// updates container. Entities that cannot be keyed are skipped.
func CollectSet(users []tg.UserClass, chats []tg.ChatClass) Set {
	s := make(Set, len(users)+len(chats))
	for _, u := range users {
		if id, err := peer.FromEntity(u); err == nil {
			s[id] = u
		}
	}
	for _, c := range chats {
		if id, err := peer.FromEntity(c); err == nil {
			s[id] = c
		}
	}
	return s
}

// ByID looks up an entity by canonical id.
func (s Set) ByID(id peer.ID) (any, bool) {
	ent, ok := s[id]
	return ent, ok
}

func (s Set) Len() int { return len(s) }

// Merge copies every entity from other into s, overwriting on id clashes.
func (s Set) Merge(other Set) {
	for id, ent := range other {
		s[id] = ent
	}
}
