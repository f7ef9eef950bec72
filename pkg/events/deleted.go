package events

import (
	"github.com/gotd/td/tg"
)

// DeletedEvent reports messages removed from a chat. Deletions outside
// channels arrive without any chat reference, so under a whitelist they
// are dropped and under a blacklist kept, per the scope rule for
// chat-less events.
type DeletedEvent struct {
	*Common
	IDs []int
}

func (e *DeletedEvent) ToMap() map[string]any {
	m := e.Common.ToMap()
	m["deleted_ids"] = e.IDs
	return m
}

// MessageDeleted builds events for message deletions.
type MessageDeleted struct {
	Filtering
}

func MessagesDeleted(opts Options) *MessageDeleted {
	return &MessageDeleted{Filtering: NewFiltering(opts)}
}

func (b *MessageDeleted) Kind() string { return KindMessageDeleted }

func (b *MessageDeleted) Build(u tg.UpdateClass) Event {
	switch v := u.(type) {
	case *tg.UpdateDeleteMessages:
		return &DeletedEvent{
			Common: NewCommon(KindMessageDeleted, nil, 0, false),
			IDs:    v.Messages,
		}
	case *tg.UpdateDeleteChannelMessages:
		return &DeletedEvent{
			Common: NewCommon(KindMessageDeleted, &tg.PeerChannel{ChannelID: v.ChannelID}, 0, true),
			IDs:    v.Messages,
		}
	default:
		return nil
	}
}
