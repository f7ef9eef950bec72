package peer

import (
	"fmt"

	"github.com/gotd/td/tg"
)

// InputPeer derives the minimal input form that can address an entity in
// protocol requests. Full entities carry their access hash into the input
// form when they have one; a zero hash still produces a structurally valid
// input peer, which callers can probe with NeedsAccessHash before use.
// Bare user and channel peer references are not convertible since the hash
// only travels with the full entity.
func InputPeer(ent any) (tg.InputPeerClass, error) {
	switch v := ent.(type) {
	case tg.InputPeerClass:
		return v, nil
	case *tg.InputUser:
		return &tg.InputPeerUser{UserID: v.UserID, AccessHash: v.AccessHash}, nil
	case *tg.InputUserSelf:
		return &tg.InputPeerSelf{}, nil
	case *tg.InputChannel:
		return &tg.InputPeerChannel{ChannelID: v.ChannelID, AccessHash: v.AccessHash}, nil
	case *tg.User:
		if v.Self {
			return &tg.InputPeerSelf{}, nil
		}
		hash, _ := v.GetAccessHash()
		return &tg.InputPeerUser{UserID: v.ID, AccessHash: hash}, nil
	case *tg.UserEmpty:
		return &tg.InputPeerEmpty{}, nil
	case *tg.Chat:
		return &tg.InputPeerChat{ChatID: v.ID}, nil
	case *tg.ChatEmpty:
		return &tg.InputPeerChat{ChatID: v.ID}, nil
	case *tg.ChatForbidden:
		return &tg.InputPeerChat{ChatID: v.ID}, nil
	case *tg.Channel:
		hash, _ := v.GetAccessHash()
		return &tg.InputPeerChannel{ChannelID: v.ID, AccessHash: hash}, nil
	case *tg.ChannelForbidden:
		return &tg.InputPeerChannel{ChannelID: v.ID, AccessHash: v.AccessHash}, nil
	case *tg.PeerChat:
		// Basic groups are addressable by id alone.
		return &tg.InputPeerChat{ChatID: v.ChatID}, nil
	default:
		return nil, fmt.Errorf("peer: cannot derive input peer from %T", ent)
	}
}

// NeedsAccessHash reports whether an input peer is structurally valid but
// unusable until an access hash is filled in from another source. Self and
// basic-group forms never carry a hash and are always usable.
func NeedsAccessHash(p tg.InputPeerClass) bool {
	switch v := p.(type) {
	case *tg.InputPeerUser:
		return v.AccessHash == 0
	case *tg.InputPeerChannel:
		return v.AccessHash == 0
	default:
		return false
	}
}
