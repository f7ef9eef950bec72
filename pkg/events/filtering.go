package events

import (
	"context"
	"fmt"

	"github.com/gramflow/gramflow/pkg/peer"
)

// Filtering is the embeddable scope half of a Builder: it resolves the
// chat specifiers exactly once and applies the whitelist/blacklist rule
// to every built event. Concrete builders embed it and add Kind and
// Build.
type Filtering struct {
	opts     Options
	scope    *Scope
	resolved bool
	selfID   peer.ID
}

func NewFiltering(opts Options) Filtering {
	return Filtering{opts: opts}
}

// Resolve converts the chat specifiers to a concrete scope and primes
// the shared identity cache. A resolution failure leaves the builder
// unresolved: with chats requested it then drops every event (fail
// closed) until a later Resolve succeeds.
func (f *Filtering) Resolve(ctx context.Context, c Client, self *SelfID) error {
	if f.resolved {
		return nil
	}
	if self == nil {
		self = NewSelfID()
	}

	id, err := self.Get(ctx, c)
	if err != nil {
		return fmt.Errorf("events: resolving self id: %w", err)
	}
	f.selfID = id

	scope, err := ResolveScope(ctx, c, self, f.opts.Chats...)
	if err != nil {
		return err
	}
	f.scope = scope
	f.resolved = true
	return nil
}

// SelfID returns the caller's own canonical id once resolved.
func (f *Filtering) SelfID() (peer.ID, bool) {
	return f.selfID, f.selfID != 0
}

// Scope returns the resolved scope; nil means unbounded.
func (f *Filtering) Scope() *Scope { return f.scope }

// Filter keeps ev iff its chat membership in the scope differs from the
// blacklist flag: whitelists keep members, blacklists keep everyone
// else. One rule, symmetric under the mode flip. Events without a chat
// reference are never inside a scope, so whitelists drop them and
// blacklists keep them.
func (f *Filtering) Filter(ev Event) Event {
	if ev == nil {
		return nil
	}
	if f.scope != nil {
		inside := false
		if id, ok := ev.Base().ChatID(); ok {
			inside = f.scope.Contains(id)
		}
		if inside == f.opts.BlacklistChats {
			return nil
		}
		return ev
	}
	// Chats were requested but never resolved: fail closed.
	if len(f.opts.Chats) > 0 && !f.resolved {
		return nil
	}
	return ev
}
