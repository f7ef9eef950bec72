package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramflow/gramflow/pkg/entity"
	"github.com/gramflow/gramflow/pkg/events"
	"github.com/gramflow/gramflow/pkg/peer"
	"github.com/gramflow/gramflow/pkg/session"
)

func testClient(t *testing.T) (*entity.Directory, *session.MemoryStore) {
	t.Helper()

	store := session.NewMemoryStore()
	me := &tg.User{ID: 999, Self: true}
	dir := entity.NewDirectory(me, store)

	alice := &tg.User{ID: 123}
	alice.SetAccessHash(111)
	alice.SetUsername("alice")
	require.NoError(t, dir.Add(alice))

	return dir, store
}

func messageContainer(id int, to, from tg.PeerClass, text string) *tg.Updates {
	m := &tg.Message{ID: id, PeerID: to, Message: text}
	if from != nil {
		m.SetFromID(from)
	}
	ch := &tg.Channel{ID: 5, Broadcast: true}
	ch.SetAccessHash(555)
	return &tg.Updates{
		Users:   []tg.UserClass{&tg.User{ID: 123}},
		Chats:   []tg.ChatClass{ch},
		Updates: []tg.UpdateClass{&tg.UpdateNewMessage{Message: m}},
	}
}

func TestDispatchDeliversBoundEvents(t *testing.T) {
	ctx := context.Background()
	dir, store := testClient(t)
	d := NewDispatcher(dir, WithStore(store))

	var got []*events.MessageEvent
	_, err := d.Handle(ctx, events.NewMessages(events.NewMessageOptions{}),
		NewMessages(func(_ context.Context, ev *events.MessageEvent) error {
			got = append(got, ev)
			return nil
		}))
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(ctx, messageContainer(1, &tg.PeerUser{UserID: 123}, &tg.PeerUser{UserID: 123}, "hi")))

	require.Len(t, got, 1)
	ev := got[0]
	assert.Equal(t, "NewMessage.Event", ev.Kind())
	assert.NotNil(t, ev.Chat(), "snapshot entity should be bound")
	assert.Equal(t, 2, ev.Entities().Len())

	// The container snapshot must have been persisted: the channel is
	// now addressable through the session store.
	input, err := store.InputPeer(ctx, peer.Channel(5))
	require.NoError(t, err)
	assert.IsType(t, &tg.InputPeerChannel{}, input)
}

func TestHandleRefusesUnresolvableScope(t *testing.T) {
	ctx := context.Background()
	dir, _ := testClient(t)
	d := NewDispatcher(dir)

	_, err := d.Handle(ctx, events.NewMessages(events.NewMessageOptions{
		Options: events.Options{Chats: []any{"nobody"}},
	}), NewMessages(func(context.Context, *events.MessageEvent) error {
		t.Fatal("handler must never run")
		return nil
	}))
	require.Error(t, err)

	// Nothing registered: dispatch delivers to no one.
	require.NoError(t, d.Dispatch(ctx, messageContainer(1, &tg.PeerUser{UserID: 123}, nil, "hi")))
}

func TestHandleNilArguments(t *testing.T) {
	dir, _ := testClient(t)
	d := NewDispatcher(dir)

	_, err := d.Handle(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	dir, _ := testClient(t)
	d := NewDispatcher(dir)

	delivered := 0
	id, err := d.Handle(ctx, events.RawUpdates(events.Options{}),
		func(context.Context, events.Event) error {
			delivered++
			return nil
		})
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(ctx, &tg.UpdateShort{Update: &tg.UpdateDeleteMessages{Messages: []int{1}}}))
	assert.Equal(t, 1, delivered)

	assert.True(t, d.Remove(id))
	assert.False(t, d.Remove(id), "second removal must report false")

	require.NoError(t, d.Dispatch(ctx, &tg.UpdateShort{Update: &tg.UpdateDeleteMessages{Messages: []int{2}}}))
	assert.Equal(t, 1, delivered, "removed handler still receiving events")
}

func TestScopeFilteringAcrossDispatch(t *testing.T) {
	ctx := context.Background()
	dir, _ := testClient(t)
	d := NewDispatcher(dir)

	var kept []int64
	_, err := d.Handle(ctx, events.NewMessages(events.NewMessageOptions{
		Options: events.Options{Chats: []any{123}},
	}), NewMessages(func(_ context.Context, ev *events.MessageEvent) error {
		id, _ := ev.ChatID()
		kept = append(kept, int64(id))
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(ctx, messageContainer(1, &tg.PeerUser{UserID: 123}, nil, "in scope")))
	require.NoError(t, d.Dispatch(ctx, messageContainer(2, &tg.PeerUser{UserID: 456}, nil, "out of scope")))
	require.NoError(t, d.Dispatch(ctx, messageContainer(3, &tg.PeerChannel{ChannelID: 123}, nil, "channel encoding")))

	assert.Equal(t, []int64{123, int64(peer.Channel(123))}, kept)
}

func TestHandlerErrorDoesNotStopDispatch(t *testing.T) {
	ctx := context.Background()
	dir, _ := testClient(t)
	d := NewDispatcher(dir)

	second := 0
	_, err := d.Handle(ctx, events.RawUpdates(events.Options{}),
		func(context.Context, events.Event) error {
			return errors.New("handler exploded")
		})
	require.NoError(t, err)
	_, err = d.Handle(ctx, events.RawUpdates(events.Options{}),
		func(context.Context, events.Event) error {
			second++
			return nil
		})
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(ctx, &tg.UpdateShort{Update: &tg.UpdateDeleteMessages{Messages: []int{1}}}))
	assert.Equal(t, 1, second, "second handler must still run")
}

func TestDispatchSkipsUnknownContainers(t *testing.T) {
	dir, _ := testClient(t)
	d := NewDispatcher(dir)

	require.NoError(t, d.Dispatch(context.Background(), &tg.UpdatesTooLong{}))
}

func TestDispatchHonorsCancelledContext(t *testing.T) {
	dir, _ := testClient(t)
	d := NewDispatcher(dir)

	_, err := d.Handle(context.Background(), events.RawUpdates(events.Options{}),
		func(context.Context, events.Event) error { return nil })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = d.DispatchUpdate(ctx, &tg.UpdateDeleteMessages{Messages: []int{1}}, entity.EmptySet())
	require.ErrorIs(t, err, context.Canceled)
}

func TestTypedHandlerAdaptersSkipOtherKinds(t *testing.T) {
	called := false
	h := MessagesDeleted(func(context.Context, *events.DeletedEvent) error {
		called = true
		return nil
	})

	msg := &events.MessageEvent{
		Common:  events.NewCommon("NewMessage.Event", &tg.PeerUser{UserID: 1}, 1, false),
		Message: &tg.Message{ID: 1},
	}
	require.NoError(t, h(context.Background(), msg))
	assert.False(t, called, "deletion adapter ran for a message event")
}
