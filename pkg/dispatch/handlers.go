package dispatch

import (
	"context"

	"github.com/gramflow/gramflow/pkg/events"
)

// NewMessages adapts a typed new/edited-message callback into a Handler.
// Events of other kinds pass through untouched.
func NewMessages(fn func(ctx context.Context, ev *events.MessageEvent) error) Handler {
	return func(ctx context.Context, ev events.Event) error {
		if me, ok := ev.(*events.MessageEvent); ok {
			return fn(ctx, me)
		}
		return nil
	}
}

// MessagesDeleted adapts a typed deletion callback into a Handler.
func MessagesDeleted(fn func(ctx context.Context, ev *events.DeletedEvent) error) Handler {
	return func(ctx context.Context, ev events.Event) error {
		if de, ok := ev.(*events.DeletedEvent); ok {
			return fn(ctx, de)
		}
		return nil
	}
}

// RawUpdates adapts a typed raw-update callback into a Handler.
func RawUpdates(fn func(ctx context.Context, ev *events.RawEvent) error) Handler {
	return func(ctx context.Context, ev events.Event) error {
		if re, ok := ev.(*events.RawEvent); ok {
			return fn(ctx, re)
		}
		return nil
	}
}
