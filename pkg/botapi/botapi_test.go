package botapi

import (
	"testing"

	"github.com/mymmrac/telego"

	"github.com/gramflow/gramflow/pkg/peer"
)

func TestChatID(t *testing.T) {
	tests := []struct {
		name    string
		chat    telego.Chat
		want    peer.ID
		wantErr bool
	}{
		{"private", telego.Chat{ID: 123, Type: telego.ChatTypePrivate}, 123, false},
		{"group", telego.Chat{ID: -123, Type: telego.ChatTypeGroup}, -123, false},
		{"supergroup", telego.Chat{ID: -100123, Type: telego.ChatTypeSupergroup}, -100123, false},
		{"channel", telego.Chat{ID: -100456, Type: telego.ChatTypeChannel}, -100456, false},
		{"private with negative id", telego.Chat{ID: -5, Type: telego.ChatTypePrivate}, 0, true},
		{"group with positive id", telego.Chat{ID: 5, Type: telego.ChatTypeGroup}, 0, true},
		{"channel with group id", telego.Chat{ID: -5, Type: telego.ChatTypeChannel}, 0, true},
		{"unknown type", telego.Chat{ID: 5, Type: "mystery"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ChatID(tt.chat)
			if tt.wantErr {
				if err == nil {
					t.Errorf("got %d, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUserID(t *testing.T) {
	if got := UserID(telego.User{ID: 42}); got != peer.User(42) {
		t.Errorf("got %d, want 42", got)
	}
}

func TestChats(t *testing.T) {
	specs, err := Chats(
		telego.Chat{ID: 123, Type: telego.ChatTypePrivate},
		telego.Chat{ID: -100456, Type: telego.ChatTypeChannel},
	)
	if err != nil {
		t.Fatalf("Chats failed: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("got %d specifiers, want 2", len(specs))
	}
	if specs[0] != peer.ID(123) || specs[1] != peer.ID(-100456) {
		t.Errorf("got %v", specs)
	}

	if _, err := Chats(telego.Chat{ID: 5, Type: telego.ChatTypeGroup}); err == nil {
		t.Error("expected error for mismatched chat")
	}
}
