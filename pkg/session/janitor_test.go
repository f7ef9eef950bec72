package session

import (
	"context"
	"testing"
	"time"

	"github.com/gotd/td/tg"

	"github.com/gramflow/gramflow/pkg/peer"
)

func TestNewJanitorValidation(t *testing.T) {
	store := NewMemoryStore()

	if _, err := NewJanitor(store, "not a cron", time.Hour); err == nil {
		t.Error("expected error for invalid cron expression")
	}
	if _, err := NewJanitor(store, "*/5 * * * *", 0); err == nil {
		t.Error("expected error for non-positive max age")
	}
	if _, err := NewJanitor(store, "*/5 * * * *", time.Hour); err != nil {
		t.Errorf("valid janitor rejected: %v", err)
	}
}

func TestJanitorTick(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	store.now = func() time.Time { return base }
	store.Save(ctx, map[peer.ID]any{
		peer.Chat(1): &tg.Chat{ID: 1},
		peer.Chat(2): &tg.Chat{ID: 2},
	})

	j, err := NewJanitor(store, "0 * * * *", time.Hour)
	if err != nil {
		t.Fatalf("NewJanitor failed: %v", err)
	}

	// An hour has not passed yet: nothing to evict.
	j.now = func() time.Time { return base.Add(30 * time.Minute) }
	if n := j.Tick(); n != 0 {
		t.Errorf("Tick evicted %d fresh records", n)
	}

	j.now = func() time.Time { return base.Add(2 * time.Hour) }
	if n := j.Tick(); n != 2 {
		t.Errorf("Tick evicted %d records, want 2", n)
	}
	if store.Len() != 0 {
		t.Errorf("%d records left after eviction", store.Len())
	}
}
