package events

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/gotd/td/tg"

	"github.com/gramflow/gramflow/pkg/session"
)

// stubClient is the counting collaborator used across the event tests.
type stubClient struct {
	me      *tg.User
	meErr   error
	inputs  map[string]tg.InputPeerClass
	store   session.Store
	meCalls atomic.Int64
}

func newStubClient() *stubClient {
	return &stubClient{
		me:     &tg.User{ID: 999, Self: true},
		inputs: make(map[string]tg.InputPeerClass),
	}
}

func (c *stubClient) Me(_ context.Context) (*tg.User, error) {
	c.meCalls.Add(1)
	if c.meErr != nil {
		return nil, c.meErr
	}
	return c.me, nil
}

func (c *stubClient) InputEntity(_ context.Context, ref any) (tg.InputPeerClass, error) {
	key := fmt.Sprintf("%v", ref)
	if input, ok := c.inputs[key]; ok {
		return input, nil
	}
	return nil, fmt.Errorf("stub: unknown reference %v", ref)
}

func (c *stubClient) Session() session.Store { return c.store }
