// Package session implements the local entity store consumed by event
// binding as a fallback when a snapshot entity lacks the access hash
// needed to address it. The dispatcher feeds every snapshot it sees into
// the configured store, so the fallback grows more effective over time.
package session

import (
	"context"
	"errors"

	"github.com/gotd/td/tg"

	"github.com/gramflow/gramflow/pkg/peer"
)

// ErrNotFound is returned when a store has no usable input peer for the
// requested id.
var ErrNotFound = errors.New("session: entity not found")

// Store persists addressable input forms keyed by canonical id.
type Store interface {
	// InputPeer returns the stored input form for id, or ErrNotFound.
	InputPeer(ctx context.Context, id peer.ID) (tg.InputPeerClass, error)
	// Save persists the addressable entities of a snapshot. Entities
	// without a usable input form are skipped, never an error.
	Save(ctx context.Context, snapshot map[peer.ID]any) error
}

// usableInput derives the input form of a snapshot entity, returning
// false for entities that cannot be addressed or whose input form still
// lacks an access hash. Only usable forms are worth persisting.
func usableInput(ent any) (tg.InputPeerClass, bool) {
	input, err := peer.InputPeer(ent)
	if err != nil {
		return nil, false
	}
	if peer.NeedsAccessHash(input) {
		return nil, false
	}
	switch input.(type) {
	case *tg.InputPeerSelf, *tg.InputPeerEmpty:
		return nil, false
	}
	return input, true
}
