package entity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gotd/td/tg"

	"github.com/gramflow/gramflow/pkg/peer"
	"github.com/gramflow/gramflow/pkg/session"
)

// Directory is a static, in-memory client collaborator: it resolves
// usernames, ids and peer references against a fixed entity set and
// serves the signed-in account. The simulator runs on one, and tests use
// it as the canonical client double. It satisfies events.Client.
type Directory struct {
	mu         sync.RWMutex
	me         *tg.User
	byID       map[peer.ID]any
	byUsername map[string]any
	store      session.Store

	meCalls atomic.Int64
}

func NewDirectory(me *tg.User, store session.Store) *Directory {
	d := &Directory{
		me:         me,
		byID:       make(map[peer.ID]any),
		byUsername: make(map[string]any),
		store:      store,
	}
	if me != nil {
		d.Add(me)
	}
	return d
}

// Add registers entities, indexing them by canonical id and, for users
// and channels that have one, by username.
func (d *Directory) Add(entities ...any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, ent := range entities {
		id, err := peer.FromEntity(ent)
		if err != nil {
			return fmt.Errorf("entity: cannot index %T: %w", ent, err)
		}
		d.byID[id] = ent

		switch v := ent.(type) {
		case *tg.User:
			if name, ok := v.GetUsername(); ok && name != "" {
				d.byUsername[strings.ToLower(name)] = ent
			}
		case *tg.Channel:
			if name, ok := v.GetUsername(); ok && name != "" {
				d.byUsername[strings.ToLower(name)] = ent
			}
		}
	}
	return nil
}

// Me returns the signed-in account. The call count is tracked so tests
// can assert how many identity lookups actually happened.
func (d *Directory) Me(_ context.Context) (*tg.User, error) {
	d.meCalls.Add(1)
	if d.me == nil {
		return nil, fmt.Errorf("entity: directory has no signed-in account")
	}
	return d.me, nil
}

// MeCalls returns how many times Me has been invoked.
func (d *Directory) MeCalls() int64 { return d.meCalls.Load() }

// Session returns the directory's session store, which may be nil.
func (d *Directory) Session() session.Store { return d.store }

// InputEntity resolves a chat specifier against the directory. Unknown
// references return a descriptive error.
func (d *Directory) InputEntity(_ context.Context, ref any) (tg.InputPeerClass, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	switch v := ref.(type) {
	case string:
		name := strings.ToLower(strings.TrimPrefix(v, "@"))
		if name == "me" || name == "self" {
			return &tg.InputPeerSelf{}, nil
		}
		ent, ok := d.byUsername[name]
		if !ok {
			return nil, fmt.Errorf("entity: no entity with username %q", v)
		}
		return peer.InputPeer(ent)
	case int:
		return d.inputByNumber(int64(v))
	case int64:
		return d.inputByNumber(v)
	case peer.ID:
		return d.inputByID(v)
	case tg.PeerClass:
		id, err := peer.FromPeer(v)
		if err != nil {
			return nil, err
		}
		return d.inputByID(id)
	default:
		return nil, fmt.Errorf("entity: cannot resolve %T as a chat specifier", ref)
	}
}

// inputByNumber tries every canonical encoding a bare number may denote.
func (d *Directory) inputByNumber(n int64) (tg.InputPeerClass, error) {
	for _, id := range peer.Expand(n) {
		if ent, ok := d.byID[id]; ok {
			return peer.InputPeer(ent)
		}
	}
	return nil, fmt.Errorf("entity: no entity with id %d", n)
}

func (d *Directory) inputByID(id peer.ID) (tg.InputPeerClass, error) {
	ent, ok := d.byID[id]
	if !ok {
		return nil, fmt.Errorf("entity: no entity with canonical id %d", id)
	}
	return peer.InputPeer(ent)
}
