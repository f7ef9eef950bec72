// Package dispatch connects the update stream to registered event
// builders: it explodes update containers into single updates plus an
// entity snapshot, runs every registration's build/filter/bind sequence,
// and delivers surviving events to handlers.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gotd/td/tg"

	"github.com/gramflow/gramflow/pkg/entity"
	"github.com/gramflow/gramflow/pkg/events"
	"github.com/gramflow/gramflow/pkg/logger"
	"github.com/gramflow/gramflow/pkg/session"
)

const component = "dispatch"

// Handler consumes a delivered event. Errors are logged and counted but
// never stop the dispatch loop.
type Handler func(ctx context.Context, ev events.Event) error

type registration struct {
	id      string
	builder events.Builder
	handler Handler
}

// Dispatcher owns the client collaborator, one shared identity cache,
// and the registration list. Handlers run sequentially in the caller's
// flow; there is no worker pool.
type Dispatcher struct {
	client events.Client
	self   *events.SelfID
	store  session.Store

	mu   sync.RWMutex
	regs []registration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithStore sets the session store snapshots are persisted to. Without
// one the dispatcher falls back to the client's own store, if any.
func WithStore(store session.Store) Option {
	return func(d *Dispatcher) { d.store = store }
}

func NewDispatcher(client events.Client, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		client: client,
		self:   events.NewSelfID(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if d.store == nil {
		d.store = client.Session()
	}
	return d
}

// SelfID exposes the shared identity cache, mainly for diagnostics.
func (d *Dispatcher) SelfID() *events.SelfID { return d.self }

// Handle resolves the builder's scope and registers it. A resolution
// failure leaves nothing registered. The returned id removes the
// registration later.
func (d *Dispatcher) Handle(ctx context.Context, b events.Builder, h Handler) (string, error) {
	if b == nil || h == nil {
		return "", fmt.Errorf("dispatch: builder and handler must be non-nil")
	}
	if b.Kind() == "" {
		logger.WarnC(component, "builder has no kind discriminator, events will carry the generic one")
	}

	if err := b.Resolve(ctx, d.client, d.self); err != nil {
		return "", fmt.Errorf("dispatch: resolving %s scope: %w", b.Kind(), err)
	}

	id := uuid.NewString()
	d.mu.Lock()
	d.regs = append(d.regs, registration{id: id, builder: b, handler: h})
	d.mu.Unlock()

	logger.InfoCF(component, "handler registered", map[string]any{
		"id":   id,
		"kind": b.Kind(),
	})
	return id, nil
}

// Remove unregisters a handler by id.
func (d *Dispatcher) Remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, reg := range d.regs {
		if reg.id == id {
			d.regs = append(d.regs[:i], d.regs[i+1:]...)
			return true
		}
	}
	return false
}

// Dispatch explodes an update container and runs every inner update
// through the registrations. The container's entity snapshot is shared
// by all inner updates and persisted to the session store best-effort.
func (d *Dispatcher) Dispatch(ctx context.Context, upd tg.UpdatesClass) error {
	updatesReceived.Inc()

	switch u := upd.(type) {
	case *tg.Updates:
		return d.dispatchAll(ctx, u.Updates, entity.CollectSet(u.Users, u.Chats))
	case *tg.UpdatesCombined:
		return d.dispatchAll(ctx, u.Updates, entity.CollectSet(u.Users, u.Chats))
	case *tg.UpdateShort:
		return d.DispatchUpdate(ctx, u.Update, entity.EmptySet())
	default:
		containersSkipped.Inc()
		logger.DebugCF(component, "skipping update container", map[string]any{
			"type": fmt.Sprintf("%T", upd),
		})
		return nil
	}
}

func (d *Dispatcher) dispatchAll(ctx context.Context, updates []tg.UpdateClass, snapshot entity.Set) error {
	if snapshot.Len() > 0 {
		snapshotEntities.Add(float64(snapshot.Len()))
		if d.store != nil {
			if err := d.store.Save(ctx, snapshot); err != nil {
				logger.WarnCF(component, "persisting entity snapshot failed", map[string]any{
					"entities": snapshot.Len(),
					"error":    err.Error(),
				})
			}
		}
	}
	for _, u := range updates {
		if err := d.DispatchUpdate(ctx, u, snapshot); err != nil {
			return err
		}
	}
	return nil
}

// DispatchUpdate runs one update through every registration: build,
// filter, bind, deliver. Handler errors are logged with the
// registration id and do not interrupt the loop; only a cancelled
// context stops it.
func (d *Dispatcher) DispatchUpdate(ctx context.Context, u tg.UpdateClass, snapshot entity.Set) error {
	d.mu.RLock()
	regs := make([]registration, len(d.regs))
	copy(regs, d.regs)
	d.mu.RUnlock()

	for _, reg := range regs {
		if err := ctx.Err(); err != nil {
			return err
		}

		ev := reg.builder.Build(u)
		if ev == nil {
			continue
		}
		eventsBuilt.Inc()

		ev = reg.builder.Filter(ev)
		if ev == nil {
			eventsFiltered.Inc()
			continue
		}

		ev.Base().Bind(ctx, d.client, snapshot)

		if err := reg.handler(ctx, ev); err != nil {
			handlerErrors.Inc()
			logger.ErrorCF(component, "handler failed", map[string]any{
				"id":    reg.id,
				"kind":  ev.Kind(),
				"error": err.Error(),
			})
			continue
		}
		eventsDelivered.Inc()
	}
	return nil
}
