package events

import (
	"context"
	"errors"

	"github.com/gotd/td/tg"

	"github.com/gramflow/gramflow/pkg/entity"
	"github.com/gramflow/gramflow/pkg/logger"
	"github.com/gramflow/gramflow/pkg/peer"
	"github.com/gramflow/gramflow/pkg/session"
)

// Common is the base state every event carries: the originating chat
// reference, the message id when there is one, the broadcast flag, and
// the entity snapshot taken from the update container. The concrete chat
// and its input form are derived during Bind and stay unset before it.
type Common struct {
	kind      string
	chatPeer  tg.PeerClass
	msgID     int
	broadcast bool

	client    Client
	entities  entity.Set
	chat      any
	inputChat tg.InputPeerClass
}

// NewCommon constructs the base state. The kind discriminator is fixed
// at construction and never mutated; an empty kind falls back to "Event".
// chatPeer may be nil for events without an originating chat.
func NewCommon(kind string, chatPeer tg.PeerClass, msgID int, broadcast bool) *Common {
	if kind == "" {
		kind = "Event"
	}
	return &Common{
		kind:      kind,
		chatPeer:  chatPeer,
		msgID:     msgID,
		broadcast: broadcast,
		entities:  entity.EmptySet(),
	}
}

func (c *Common) Kind() string { return c.kind }

func (c *Common) Base() *Common { return c }

// ChatPeer returns the originating chat reference, nil when the event
// has none.
func (c *Common) ChatPeer() tg.PeerClass { return c.chatPeer }

// ChatID returns the canonical id of the originating chat.
func (c *Common) ChatID() (peer.ID, bool) {
	if c.chatPeer == nil {
		return 0, false
	}
	id, err := peer.FromPeer(c.chatPeer)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (c *Common) MessageID() int { return c.msgID }

func (c *Common) Broadcast() bool { return c.broadcast }

// Chat returns the concrete chat entity found in the snapshot during
// Bind, nil before Bind or when the snapshot missed.
func (c *Common) Chat() any { return c.chat }

// InputChat returns the addressable form of the chat, nil when neither
// the snapshot nor the session fallback produced a usable one.
func (c *Common) InputChat() tg.InputPeerClass { return c.inputChat }

func (c *Common) Entities() entity.Set { return c.entities }

func (c *Common) Client() Client { return c.client }

func (c *Common) IsPrivate() bool {
	_, ok := c.chatPeer.(*tg.PeerUser)
	return ok
}

func (c *Common) IsGroup() bool {
	switch c.chatPeer.(type) {
	case *tg.PeerChat:
		return true
	case *tg.PeerChannel:
		return !c.broadcast
	}
	return false
}

func (c *Common) IsChannel() bool {
	_, ok := c.chatPeer.(*tg.PeerChannel)
	return ok
}

// Bind attaches the owning client and the entity snapshot, then derives
// the concrete chat and its input form. A chat absent from the snapshot
// leaves both derived fields unset. An input form missing its access
// hash triggers a session store fallback; a not-found fallback stays
// silent, any other store error is logged and degrades the same way.
// Bind never fails.
func (c *Common) Bind(ctx context.Context, client Client, entities entity.Set) {
	c.client = client
	if entities != nil {
		c.entities = entities
	}
	if c.chatPeer == nil {
		return
	}

	id, ok := c.ChatID()
	if !ok {
		return
	}
	ent, found := c.entities.ByID(id)
	if !found {
		return
	}
	c.chat = ent

	input, err := peer.InputPeer(ent)
	if err != nil {
		return
	}
	if !peer.NeedsAccessHash(input) {
		c.inputChat = input
		return
	}

	if client == nil {
		return
	}
	store := client.Session()
	if store == nil {
		return
	}
	fallback, err := store.InputPeer(ctx, id)
	switch {
	case err == nil:
		if !peer.NeedsAccessHash(fallback) {
			c.inputChat = fallback
		}
	case errors.Is(err, session.ErrNotFound):
	default:
		logger.WarnCF("events", "session fallback lookup failed", map[string]any{
			"chat_id": int64(id),
			"error":   err.Error(),
		})
	}
}

// ToMap returns the structured form of the base state. The "_" key
// always names the event kind; nothing internal to the implementation
// is exposed.
func (c *Common) ToMap() map[string]any {
	m := map[string]any{
		"_":          c.kind,
		"broadcast":  c.broadcast,
		"is_private": c.IsPrivate(),
		"is_group":   c.IsGroup(),
		"is_channel": c.IsChannel(),
	}
	if id, ok := c.ChatID(); ok {
		m["chat_id"] = int64(id)
	}
	if c.msgID != 0 {
		m["message_id"] = c.msgID
	}
	return m
}
