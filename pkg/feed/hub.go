// Package feed serves a debug tap: the structured form of every
// delivered event is broadcast to websocket subscribers. Slow
// subscribers are dropped rather than allowed to stall the dispatch
// flow.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/gramflow/gramflow/pkg/events"
	"github.com/gramflow/gramflow/pkg/logger"
)

const component = "feed"

// ErrHubClosed is returned when publishing to a closed Hub.
var ErrHubClosed = errors.New("feed: hub closed")

const sendQueueSize = 32

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans event payloads out to websocket subscribers.
type Hub struct {
	mu       sync.Mutex
	subs     map[*subscriber]struct{}
	done     chan struct{}
	closed   atomic.Bool
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[*subscriber]struct{}),
		done: make(chan struct{}),
	}
}

// Publish broadcasts one payload to every subscriber. A subscriber whose
// queue is full is disconnected.
func (h *Hub) Publish(payload map[string]any) error {
	if h.closed.Load() {
		return ErrHubClosed
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.send <- raw:
		default:
			logger.WarnC(component, "dropping slow subscriber")
			h.dropLocked(sub)
		}
	}
	return nil
}

// HandleEvent publishes an event's structured form; its signature
// matches dispatch.Handler so a Hub can be registered directly.
func (h *Hub) HandleEvent(_ context.Context, ev events.Event) error {
	return h.Publish(ev.ToMap())
}

// ServeHTTP upgrades the request and streams payloads until the client
// disconnects or the hub closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.closed.Load() {
		http.Error(w, "feed closed", http.StatusServiceUnavailable)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnCF(component, "websocket upgrade failed", map[string]any{"error": err.Error()})
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, sendQueueSize)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()
	logger.DebugCF(component, "subscriber connected", map[string]any{"subscribers": n})

	go h.writePump(sub)
	go h.readPump(sub)
}

// readPump discards inbound frames; its only job is noticing the client
// going away.
func (h *Hub) readPump(sub *subscriber) {
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			h.mu.Lock()
			h.dropLocked(sub)
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) writePump(sub *subscriber) {
	defer func() {
		h.mu.Lock()
		h.dropLocked(sub)
		h.mu.Unlock()
	}()
	for {
		select {
		case raw, ok := <-sub.send:
			if !ok {
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-h.done:
			sub.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "hub closing"))
			return
		}
	}
}

// dropLocked removes a subscriber; the caller holds h.mu.
func (h *Hub) dropLocked(sub *subscriber) {
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.send)
	sub.conn.Close()
}

// Close disconnects every subscriber and rejects further publishes.
func (h *Hub) Close() {
	if !h.closed.CompareAndSwap(false, true) {
		return
	}
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub.send)
		sub.conn.Close()
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
