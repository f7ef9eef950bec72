// Package peer implements the canonical chat identifier codec shared by
// every gramflow component. A canonical ID folds a protocol entity's kind
// and numeric id into one signed integer, following the Bot API marking
// convention: users keep their positive id, basic groups negate it, and
// channels are negated behind a textual "-100" prefix.
package peer

import (
	"fmt"
	"strconv"

	"github.com/gotd/td/tg"
)

// ID is a canonical marked chat identifier.
type ID int64

// Kind discriminates the three entity families an ID can encode.
type Kind int

const (
	KindUser Kind = iota
	KindChat
	KindChannel
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindChat:
		return "chat"
	case KindChannel:
		return "channel"
	default:
		return "unknown"
	}
}

// User marks a user id. Users keep their id unchanged.
func User(id int64) ID { return ID(id) }

// Chat marks a basic group id by negating it.
func Chat(id int64) ID { return ID(-id) }

// Channel marks a channel id by prefixing the textual "-100". The prefix
// is applied arithmetically: -(id + 10^(digits(id)+2)).
func Channel(id int64) ID {
	pow := int64(1)
	for i := 0; i < len(strconv.FormatInt(id, 10))+2; i++ {
		pow *= 10
	}
	return ID(-(id + pow))
}

// Expand returns every canonical encoding a bare integer may refer to.
// Negative input is already marked and passes through verbatim as the
// caller's explicit intent. Non-negative input is ambiguous and expands
// to all three kind encodings.
func Expand(n int64) []ID {
	if n < 0 {
		return []ID{ID(n)}
	}
	return []ID{User(n), Chat(n), Channel(n)}
}

// Resolve splits a marked ID back into its kind and the entity's real id.
// A negative value is a channel only when the digits after "-100" start
// with a non-zero digit; otherwise it is a basic group, so chat ids that
// happen to begin with "100" survive the round trip.
func Resolve(id ID) (Kind, int64) {
	if id >= 0 {
		return KindUser, int64(id)
	}
	s := strconv.FormatInt(int64(id), 10)
	if len(s) > 4 && s[:4] == "-100" && s[4] != '0' {
		real, err := strconv.ParseInt(s[4:], 10, 64)
		if err == nil {
			return KindChannel, real
		}
	}
	return KindChat, -int64(id)
}

// ToPeer rebuilds the protocol peer reference an ID encodes.
func (id ID) ToPeer() tg.PeerClass {
	kind, real := Resolve(id)
	switch kind {
	case KindChat:
		return &tg.PeerChat{ChatID: real}
	case KindChannel:
		return &tg.PeerChannel{ChannelID: real}
	default:
		return &tg.PeerUser{UserID: real}
	}
}

// FromPeer returns the single canonical encoding of a peer reference.
func FromPeer(p tg.PeerClass) (ID, error) {
	switch v := p.(type) {
	case *tg.PeerUser:
		return User(v.UserID), nil
	case *tg.PeerChat:
		return Chat(v.ChatID), nil
	case *tg.PeerChannel:
		return Channel(v.ChannelID), nil
	default:
		return 0, fmt.Errorf("peer: cannot encode %T", p)
	}
}

// FromInputPeer returns the canonical encoding of an input peer.
// InputPeerSelf carries no id and InputPeerEmpty addresses nothing, so
// neither is locally encodable.
func FromInputPeer(p tg.InputPeerClass) (ID, error) {
	switch v := p.(type) {
	case *tg.InputPeerUser:
		return User(v.UserID), nil
	case *tg.InputPeerChat:
		return Chat(v.ChatID), nil
	case *tg.InputPeerChannel:
		return Channel(v.ChannelID), nil
	default:
		return 0, fmt.Errorf("peer: cannot encode %T without an identity", p)
	}
}

// FromEntity returns the canonical encoding of any peer-shaped value:
// peers, input peers, and full entity objects including their forbidden
// and empty variants.
func FromEntity(ent any) (ID, error) {
	switch v := ent.(type) {
	case tg.PeerClass:
		return FromPeer(v)
	case tg.InputPeerClass:
		return FromInputPeer(v)
	case *tg.User:
		return User(v.ID), nil
	case *tg.UserEmpty:
		return User(v.ID), nil
	case *tg.Chat:
		return Chat(v.ID), nil
	case *tg.ChatForbidden:
		return Chat(v.ID), nil
	case *tg.ChatEmpty:
		return Chat(v.ID), nil
	case *tg.Channel:
		return Channel(v.ID), nil
	case *tg.ChannelForbidden:
		return Channel(v.ID), nil
	default:
		return 0, fmt.Errorf("peer: cannot derive id from %T", ent)
	}
}
