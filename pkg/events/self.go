package events

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/gramflow/gramflow/pkg/peer"
)

// SelfID caches the canonical id of the running account. One SelfID is
// shared by every filter resolving against the same client, so the
// identity lookup happens at most once no matter how many filters need
// it. The zero value is ready to use.
//
// Reads go through an atomic; concurrent misses are collapsed by
// singleflight. A failed lookup is not cached and the next Get retries.
type SelfID struct {
	id    atomic.Int64
	group singleflight.Group
}

func NewSelfID() *SelfID { return &SelfID{} }

// Cached returns the id without touching the client.
func (s *SelfID) Cached() (peer.ID, bool) {
	v := s.id.Load()
	return peer.ID(v), v != 0
}

// Get returns the cached id, performing the identity lookup on first use.
func (s *SelfID) Get(ctx context.Context, c Client) (peer.ID, error) {
	if id, ok := s.Cached(); ok {
		return id, nil
	}

	v, err, _ := s.group.Do("me", func() (any, error) {
		if id, ok := s.Cached(); ok {
			return id, nil
		}
		me, err := c.Me(ctx)
		if err != nil {
			return peer.ID(0), err
		}
		id := peer.User(me.ID)
		s.id.Store(int64(id))
		return id, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(peer.ID), nil
}
