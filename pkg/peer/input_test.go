package peer

import (
	"testing"

	"github.com/gotd/td/tg"
)

func TestInputPeerLadder(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want tg.InputPeerClass
	}{
		{
			"self user",
			&tg.User{ID: 1, Self: true},
			&tg.InputPeerSelf{},
		},
		{
			"user with hash",
			func() *tg.User {
				u := &tg.User{ID: 2}
				u.SetAccessHash(555)
				return u
			}(),
			&tg.InputPeerUser{UserID: 2, AccessHash: 555},
		},
		{
			"user without hash",
			&tg.User{ID: 3},
			&tg.InputPeerUser{UserID: 3},
		},
		{
			"empty user",
			&tg.UserEmpty{ID: 4},
			&tg.InputPeerEmpty{},
		},
		{
			"chat",
			&tg.Chat{ID: 5},
			&tg.InputPeerChat{ChatID: 5},
		},
		{
			"forbidden chat",
			&tg.ChatForbidden{ID: 6},
			&tg.InputPeerChat{ChatID: 6},
		},
		{
			"channel",
			func() *tg.Channel {
				c := &tg.Channel{ID: 7}
				c.SetAccessHash(777)
				return c
			}(),
			&tg.InputPeerChannel{ChannelID: 7, AccessHash: 777},
		},
		{
			"forbidden channel",
			&tg.ChannelForbidden{ID: 8, AccessHash: 888},
			&tg.InputPeerChannel{ChannelID: 8, AccessHash: 888},
		},
		{
			"chat peer reference",
			&tg.PeerChat{ChatID: 9},
			&tg.InputPeerChat{ChatID: 9},
		},
		{
			"input user",
			&tg.InputUser{UserID: 10, AccessHash: 11},
			&tg.InputPeerUser{UserID: 10, AccessHash: 11},
		},
		{
			"input self",
			&tg.InputUserSelf{},
			&tg.InputPeerSelf{},
		},
		{
			"input peer passthrough",
			&tg.InputPeerChannel{ChannelID: 12, AccessHash: 13},
			&tg.InputPeerChannel{ChannelID: 12, AccessHash: 13},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InputPeer(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertInputPeerEqual(t, got, tt.want)
		})
	}
}

func assertInputPeerEqual(t *testing.T, got, want tg.InputPeerClass) {
	t.Helper()
	switch w := want.(type) {
	case *tg.InputPeerSelf:
		if _, ok := got.(*tg.InputPeerSelf); !ok {
			t.Errorf("got %T, want *tg.InputPeerSelf", got)
		}
	case *tg.InputPeerEmpty:
		if _, ok := got.(*tg.InputPeerEmpty); !ok {
			t.Errorf("got %T, want *tg.InputPeerEmpty", got)
		}
	case *tg.InputPeerUser:
		g, ok := got.(*tg.InputPeerUser)
		if !ok {
			t.Fatalf("got %T, want *tg.InputPeerUser", got)
		}
		if g.UserID != w.UserID || g.AccessHash != w.AccessHash {
			t.Errorf("got user %d/%d, want %d/%d", g.UserID, g.AccessHash, w.UserID, w.AccessHash)
		}
	case *tg.InputPeerChat:
		g, ok := got.(*tg.InputPeerChat)
		if !ok {
			t.Fatalf("got %T, want *tg.InputPeerChat", got)
		}
		if g.ChatID != w.ChatID {
			t.Errorf("got chat %d, want %d", g.ChatID, w.ChatID)
		}
	case *tg.InputPeerChannel:
		g, ok := got.(*tg.InputPeerChannel)
		if !ok {
			t.Fatalf("got %T, want *tg.InputPeerChannel", got)
		}
		if g.ChannelID != w.ChannelID || g.AccessHash != w.AccessHash {
			t.Errorf("got channel %d/%d, want %d/%d", g.ChannelID, g.AccessHash, w.ChannelID, w.AccessHash)
		}
	default:
		t.Fatalf("unhandled want type %T", want)
	}
}

func TestInputPeerRejectsBareUserPeer(t *testing.T) {
	// A bare user or channel peer has no access hash to carry over.
	if _, err := InputPeer(&tg.PeerUser{UserID: 1}); err == nil {
		t.Error("expected error for bare user peer")
	}
	if _, err := InputPeer(&tg.PeerChannel{ChannelID: 1}); err == nil {
		t.Error("expected error for bare channel peer")
	}
}

func TestNeedsAccessHash(t *testing.T) {
	tests := []struct {
		name string
		in   tg.InputPeerClass
		want bool
	}{
		{"user missing hash", &tg.InputPeerUser{UserID: 1}, true},
		{"user with hash", &tg.InputPeerUser{UserID: 1, AccessHash: 5}, false},
		{"channel missing hash", &tg.InputPeerChannel{ChannelID: 1}, true},
		{"channel with hash", &tg.InputPeerChannel{ChannelID: 1, AccessHash: 5}, false},
		{"self never needs one", &tg.InputPeerSelf{}, false},
		{"chat never needs one", &tg.InputPeerChat{ChatID: 1}, false},
		{"empty never needs one", &tg.InputPeerEmpty{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsAccessHash(tt.in); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
