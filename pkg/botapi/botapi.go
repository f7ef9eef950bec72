// Package botapi bridges Bot API chat objects into the canonical id
// space. The marked-id convention is the Bot API convention, so a
// telego chat id is already canonical; this package validates that the
// id shape matches the declared chat type before trusting it.
package botapi

import (
	"fmt"

	"github.com/mymmrac/telego"

	"github.com/gramflow/gramflow/pkg/peer"
)

// ChatID returns the canonical id of a Bot API chat, verifying the id
// against the chat's declared type.
func ChatID(chat telego.Chat) (peer.ID, error) {
	id := peer.ID(chat.ID)
	kind, _ := peer.Resolve(id)

	switch chat.Type {
	case telego.ChatTypePrivate, telego.ChatTypeSender:
		if kind != peer.KindUser {
			return 0, fmt.Errorf("botapi: private chat with non-user id %d", chat.ID)
		}
	case telego.ChatTypeGroup:
		if kind != peer.KindChat {
			return 0, fmt.Errorf("botapi: group chat with non-group id %d", chat.ID)
		}
	case telego.ChatTypeSupergroup, telego.ChatTypeChannel:
		if kind != peer.KindChannel {
			return 0, fmt.Errorf("botapi: %s chat with non-channel id %d", chat.Type, chat.ID)
		}
	default:
		return 0, fmt.Errorf("botapi: unknown chat type %q", chat.Type)
	}
	return id, nil
}

// UserID returns the canonical id of a Bot API user.
func UserID(user telego.User) peer.ID {
	return peer.User(user.ID)
}

// Chats converts Bot API chats into chat specifiers for events.Options.
func Chats(chats ...telego.Chat) ([]any, error) {
	specs := make([]any, 0, len(chats))
	for _, c := range chats {
		id, err := ChatID(c)
		if err != nil {
			return nil, err
		}
		specs = append(specs, id)
	}
	return specs, nil
}
