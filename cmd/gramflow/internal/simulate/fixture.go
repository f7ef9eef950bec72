package simulate

import (
	"github.com/gotd/td/tg"

	"github.com/gramflow/gramflow/pkg/entity"
	"github.com/gramflow/gramflow/pkg/session"
)

// The fixture reuses the entity id 123 across all three kinds on
// purpose: it demonstrates how a bare "--chats 123" expands to the
// user, the basic group and the channel, while marked ids pin one kind.
const (
	selfUserID = 7000001
	aliceID    = 123
	bobID      = 456
)

func fixtureDirectory(store session.Store) (*entity.Directory, error) {
	me := &tg.User{ID: selfUserID, Self: true, FirstName: "Sim"}
	me.SetUsername("sim_self")

	alice := &tg.User{ID: aliceID, FirstName: "Alice"}
	alice.SetAccessHash(0xA11CE)
	alice.SetUsername("alice")

	bob := &tg.User{ID: bobID, FirstName: "Bob"}
	bob.SetAccessHash(0xB0B)
	bob.SetUsername("bob")

	picnic := &tg.Chat{ID: aliceID, Title: "picnic planning"}

	announce := &tg.Channel{ID: aliceID, Title: "announcements", Broadcast: true}
	announce.SetAccessHash(0xCA11)
	announce.SetUsername("announcements")

	lounge := &tg.Channel{ID: bobID, Title: "lounge", Megagroup: true}
	lounge.SetAccessHash(0x10E6)

	dir := entity.NewDirectory(me, store)
	if err := dir.Add(alice, bob, picnic, announce, lounge); err != nil {
		return nil, err
	}
	return dir, nil
}

func message(id int, to, from tg.PeerClass, text string, post bool) *tg.Message {
	m := &tg.Message{ID: id, PeerID: to, Message: text, Post: post}
	if from != nil {
		m.SetFromID(from)
	}
	return m
}

// fixtureScript synthesizes the update sequence the simulator streams
// through the dispatcher.
func fixtureScript() []tg.UpdatesClass {
	alice := &tg.User{ID: aliceID, FirstName: "Alice"}
	alice.SetAccessHash(0xA11CE)
	bob := &tg.User{ID: bobID, FirstName: "Bob"}
	bob.SetAccessHash(0xB0B)
	picnic := &tg.Chat{ID: aliceID, Title: "picnic planning"}
	announce := &tg.Channel{ID: aliceID, Title: "announcements", Broadcast: true}
	announce.SetAccessHash(0xCA11)
	lounge := &tg.Channel{ID: bobID, Title: "lounge", Megagroup: true}
	lounge.SetAccessHash(0x10E6)

	return []tg.UpdatesClass{
		&tg.Updates{
			Users: []tg.UserClass{alice},
			Updates: []tg.UpdateClass{
				&tg.UpdateNewMessage{Message: message(1, &tg.PeerUser{UserID: aliceID}, &tg.PeerUser{UserID: aliceID}, "hey, got a minute?", false)},
			},
		},
		&tg.Updates{
			Chats: []tg.ChatClass{announce},
			Updates: []tg.UpdateClass{
				&tg.UpdateNewChannelMessage{Message: message(2, &tg.PeerChannel{ChannelID: aliceID}, nil, "release 1.4 is out", true)},
			},
		},
		&tg.Updates{
			Chats: []tg.ChatClass{picnic},
			Users: []tg.UserClass{bob},
			Updates: []tg.UpdateClass{
				&tg.UpdateNewMessage{Message: message(3, &tg.PeerChat{ChatID: aliceID}, &tg.PeerUser{UserID: bobID}, "saturday works for me", false)},
				&tg.UpdateEditMessage{Message: message(3, &tg.PeerChat{ChatID: aliceID}, &tg.PeerUser{UserID: bobID}, "sunday works for me", false)},
			},
		},
		&tg.Updates{
			Chats: []tg.ChatClass{lounge},
			Users: []tg.UserClass{bob},
			Updates: []tg.UpdateClass{
				&tg.UpdateNewChannelMessage{Message: message(4, &tg.PeerChannel{ChannelID: bobID}, &tg.PeerUser{UserID: bobID}, "anyone around?", false)},
			},
		},
		&tg.UpdateShort{
			Update: &tg.UpdateDeleteMessages{Messages: []int{1}},
		},
		&tg.Updates{
			Chats: []tg.ChatClass{announce},
			Updates: []tg.UpdateClass{
				&tg.UpdateDeleteChannelMessages{ChannelID: aliceID, Messages: []int{2}},
			},
		},
	}
}
