package session

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"github.com/gramflow/gramflow/pkg/logger"
)

// Janitor prunes a MemoryStore on a cron schedule, evicting entities not
// seen for longer than maxAge. Redis stores expire records via TTL and
// need no janitor.
type Janitor struct {
	store  *MemoryStore
	expr   string
	maxAge time.Duration
	now    func() time.Time
}

func NewJanitor(store *MemoryStore, expr string, maxAge time.Duration) (*Janitor, error) {
	if !gronx.New().IsValid(expr) {
		return nil, fmt.Errorf("session: invalid cron expression %q", expr)
	}
	if maxAge <= 0 {
		return nil, fmt.Errorf("session: entity max age must be positive, got %s", maxAge)
	}
	return &Janitor{
		store:  store,
		expr:   expr,
		maxAge: maxAge,
		now:    time.Now,
	}, nil
}

// Tick runs one prune pass and returns the number of evicted records.
func (j *Janitor) Tick() int {
	return j.store.Prune(j.now().Add(-j.maxAge))
}

// Run prunes on schedule until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) error {
	for {
		next, err := gronx.NextTickAfter(j.expr, j.now(), false)
		if err != nil {
			return fmt.Errorf("session: cron schedule: %w", err)
		}

		timer := time.NewTimer(next.Sub(j.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if n := j.Tick(); n > 0 {
			logger.DebugCF("session", "pruned stale entities", map[string]any{
				"evicted":   n,
				"remaining": j.store.Len(),
			})
		}
	}
}
