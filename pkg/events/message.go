package events

import (
	"github.com/gotd/td/tg"

	"github.com/gramflow/gramflow/pkg/peer"
)

// Kind discriminators, "<Builder>.<Event>" so structured output is
// traceable to the builder that produced it.
const (
	KindNewMessage     = "NewMessage.Event"
	KindMessageEdited  = "MessageEdited.Event"
	KindMessageDeleted = "MessageDeleted.Event"
	KindRaw            = "Raw.Event"
)

// MessageEvent is the payload shared by new-message and message-edited
// events.
type MessageEvent struct {
	*Common
	Message *tg.Message
}

func (e *MessageEvent) ToMap() map[string]any {
	m := e.Common.ToMap()
	m["text"] = e.Message.Message
	m["out"] = e.Message.Out
	if from, ok := e.Message.GetFromID(); ok {
		if id, err := peer.FromPeer(from); err == nil {
			m["sender_id"] = int64(id)
		}
	}
	return m
}

// NewMessageOptions extends the shared filter options with direction
// restrictions. Incoming keeps only messages sent to the account,
// Outgoing only messages sent by it; both unset (or both set) means no
// restriction.
type NewMessageOptions struct {
	Options
	Incoming bool
	Outgoing bool
}

// NewMessage builds events for freshly received messages.
type NewMessage struct {
	Filtering
	incoming bool
	outgoing bool
}

func NewMessages(opts NewMessageOptions) *NewMessage {
	incoming, outgoing := opts.Incoming, opts.Outgoing
	if incoming && outgoing {
		incoming, outgoing = false, false
	}
	return &NewMessage{
		Filtering: NewFiltering(opts.Options),
		incoming:  incoming,
		outgoing:  outgoing,
	}
}

func (b *NewMessage) Kind() string { return KindNewMessage }

func (b *NewMessage) Build(u tg.UpdateClass) Event {
	var mc tg.MessageClass
	switch v := u.(type) {
	case *tg.UpdateNewMessage:
		mc = v.Message
	case *tg.UpdateNewChannelMessage:
		mc = v.Message
	default:
		return nil
	}
	// Empty and service messages carry no user payload.
	msg, ok := mc.(*tg.Message)
	if !ok {
		return nil
	}
	return &MessageEvent{
		Common:  NewCommon(KindNewMessage, msg.PeerID, msg.ID, msg.Post),
		Message: msg,
	}
}

func (b *NewMessage) Filter(ev Event) Event {
	ev = b.Filtering.Filter(ev)
	if ev == nil {
		return nil
	}
	me, ok := ev.(*MessageEvent)
	if !ok {
		return ev
	}

	// Messages in the saved-messages chat arrive without the out flag;
	// a sender equal to the cached self id marks them outgoing.
	if selfID, haveSelf := b.SelfID(); haveSelf && !me.Message.Out {
		if from, okFrom := me.Message.GetFromID(); okFrom {
			if id, err := peer.FromPeer(from); err == nil && id == selfID {
				me.Message.Out = true
			}
		}
	}

	if b.incoming && me.Message.Out {
		return nil
	}
	if b.outgoing && !me.Message.Out {
		return nil
	}
	return ev
}

// MessageEdited builds events for edited messages.
type MessageEdited struct {
	Filtering
}

func MessagesEdited(opts Options) *MessageEdited {
	return &MessageEdited{Filtering: NewFiltering(opts)}
}

func (b *MessageEdited) Kind() string { return KindMessageEdited }

func (b *MessageEdited) Build(u tg.UpdateClass) Event {
	var mc tg.MessageClass
	switch v := u.(type) {
	case *tg.UpdateEditMessage:
		mc = v.Message
	case *tg.UpdateEditChannelMessage:
		mc = v.Message
	default:
		return nil
	}
	msg, ok := mc.(*tg.Message)
	if !ok {
		return nil
	}
	return &MessageEvent{
		Common:  NewCommon(KindMessageEdited, msg.PeerID, msg.ID, msg.Post),
		Message: msg,
	}
}
