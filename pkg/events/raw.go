package events

import (
	"fmt"

	"github.com/gotd/td/tg"
)

// RawEvent wraps an update verbatim for consumers that want everything.
type RawEvent struct {
	*Common
	Update tg.UpdateClass
}

func (e *RawEvent) ToMap() map[string]any {
	m := e.Common.ToMap()
	m["update"] = fmt.Sprintf("%T", e.Update)
	return m
}

// Raw builds an event from every update. Raw events carry no chat
// reference, so configuring chats on a Raw builder only makes sense in
// blacklist mode.
type Raw struct {
	Filtering
}

func RawUpdates(opts Options) *Raw {
	return &Raw{Filtering: NewFiltering(opts)}
}

func (b *Raw) Kind() string { return KindRaw }

func (b *Raw) Build(u tg.UpdateClass) Event {
	return &RawEvent{
		Common: NewCommon(KindRaw, nil, 0, false),
		Update: u,
	}
}
