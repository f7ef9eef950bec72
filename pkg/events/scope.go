package events

import (
	"context"
	"fmt"
	"sort"

	"github.com/gotd/td/tg"

	"github.com/gramflow/gramflow/pkg/peer"
)

// Scope is a resolved set of canonical chat ids. A nil *Scope means
// unbounded: no filtering is applied, mirroring the absence of a chat
// restriction. Built once per filter and read-only afterward.
type Scope struct {
	ids map[peer.ID]struct{}
}

func (s *Scope) Contains(id peer.ID) bool {
	if s == nil {
		return true
	}
	_, ok := s.ids[id]
	return ok
}

func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// IDs returns the scope members sorted, for diagnostics.
func (s *Scope) IDs() []peer.ID {
	if s == nil {
		return nil
	}
	ids := make([]peer.ID, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ResolveScope normalizes chat specifiers into a scope. No specifiers
// means unbounded (nil). Bare non-negative integers expand to all three
// kind encodings since the kind cannot be known locally; negative
// integers and peer.ID values pass through as the caller's explicit
// intent; peer-shaped values decode to their single canonical id;
// everything else goes to the client directory. A directory result of
// InputPeerSelf, like an explicit Self{} specifier, resolves through the
// shared identity cache. Lookup failures propagate unchanged; there is
// no retry and no partial scope.
func ResolveScope(ctx context.Context, c Client, self *SelfID, chats ...any) (*Scope, error) {
	if len(chats) == 0 {
		return nil, nil
	}
	if self == nil {
		self = NewSelfID()
	}

	ids := make(map[peer.ID]struct{}, len(chats))
	add := func(list ...peer.ID) {
		for _, id := range list {
			ids[id] = struct{}{}
		}
	}

	for _, spec := range chats {
		switch v := spec.(type) {
		case nil:
			return nil, fmt.Errorf("events: nil chat specifier")
		case int:
			add(peer.Expand(int64(v))...)
		case int32:
			add(peer.Expand(int64(v))...)
		case int64:
			add(peer.Expand(v)...)
		case uint:
			add(peer.Expand(int64(v))...)
		case uint32:
			add(peer.Expand(int64(v))...)
		case uint64:
			add(peer.Expand(int64(v))...)
		case peer.ID:
			add(v)
		case tg.PeerClass:
			id, err := peer.FromPeer(v)
			if err != nil {
				return nil, err
			}
			add(id)
		case Self:
			id, err := self.Get(ctx, c)
			if err != nil {
				return nil, fmt.Errorf("events: resolving self: %w", err)
			}
			add(id)
		default:
			// Entity objects and input peers decode locally.
			if id, err := peer.FromEntity(v); err == nil {
				add(id)
				continue
			}
			input, err := c.InputEntity(ctx, v)
			if err != nil {
				return nil, fmt.Errorf("events: resolving chat %v: %w", v, err)
			}
			if _, isSelf := input.(*tg.InputPeerSelf); isSelf {
				id, err := self.Get(ctx, c)
				if err != nil {
					return nil, fmt.Errorf("events: resolving self: %w", err)
				}
				add(id)
				continue
			}
			id, err := peer.FromInputPeer(input)
			if err != nil {
				return nil, err
			}
			add(id)
		}
	}

	return &Scope{ids: ids}, nil
}
