// Package events implements chat-scope resolution and event filtering:
// user-supplied chat specifiers are normalized into a set of canonical
// ids once per filter, and every incoming update is matched against that
// set under whitelist or blacklist semantics before it reaches a handler.
package events

import (
	"context"

	"github.com/gotd/td/tg"

	"github.com/gramflow/gramflow/pkg/session"
)

// Client is the external collaborator surface the event layer needs:
// a directory for specifiers it cannot decode locally, the caller's own
// identity, and a local session store for fallback entity lookups.
type Client interface {
	// InputEntity resolves an arbitrary chat specifier (username, id,
	// peer reference) to an addressable input form.
	InputEntity(ctx context.Context, ref any) (tg.InputPeerClass, error)
	// Me returns the account the client is signed in as.
	Me(ctx context.Context) (*tg.User, error)
	// Session returns the local entity store, or nil when none is
	// configured.
	Session() session.Store
}

// Self is the symbolic self-reference chat specifier. Placing Self{} in
// Options.Chats scopes a filter to the caller's own saved-messages chat.
type Self struct{}

// Options are the filter options shared by every event kind.
type Options struct {
	// Chats restricts the filter to these chat specifiers. Accepted
	// forms: signed/unsigned integers, peer.ID, tg.PeerClass, entity
	// objects, Self{}, and anything the client directory can resolve
	// (usernames). Empty means unbounded.
	Chats []any
	// BlacklistChats inverts the match: keep events from chats outside
	// the resolved set instead of inside it.
	BlacklistChats bool
}

// Event is a dispatched occurrence carrying the per-update base state.
type Event interface {
	Kind() string
	Base() *Common
	ToMap() map[string]any
}

// Builder turns raw updates into events of one kind and filters them
// against a resolved chat scope.
type Builder interface {
	Kind() string
	// Resolve converts the builder's chat specifiers into a concrete
	// scope. Must be called exactly once before the first Build; a
	// failure leaves the builder unusable.
	Resolve(ctx context.Context, c Client, self *SelfID) error
	// Build constructs this kind's event from an update, or nil when
	// the update is not of this kind.
	Build(u tg.UpdateClass) Event
	// Filter returns ev when it survives the scope, nil otherwise.
	Filter(ev Event) Event
}
