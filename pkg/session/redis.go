package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gotd/td/tg"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/gramflow/gramflow/pkg/peer"
)

var (
	lookupDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gramflow_session_lookup_duration_ms",
		Help:    "Latency of session store lookups in milliseconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	})
	entitiesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gramflow_session_entities_saved_total",
		Help: "Entities persisted to the session store",
	})
)

const defaultKeyPrefix = "gf:entity:"

// record is the JSON payload stored per entity. The input form is
// flattened to its kind, id and access hash so records stay readable
// and schema-stable across library upgrades.
type record struct {
	Kind       string `json:"kind"`
	ID         int64  `json:"id"`
	AccessHash int64  `json:"access_hash,omitempty"`
}

func encodeRecord(input tg.InputPeerClass) (record, error) {
	switch v := input.(type) {
	case *tg.InputPeerUser:
		return record{Kind: "user", ID: v.UserID, AccessHash: v.AccessHash}, nil
	case *tg.InputPeerChat:
		return record{Kind: "chat", ID: v.ChatID}, nil
	case *tg.InputPeerChannel:
		return record{Kind: "channel", ID: v.ChannelID, AccessHash: v.AccessHash}, nil
	default:
		return record{}, fmt.Errorf("session: cannot encode %T", input)
	}
}

func (r record) inputPeer() (tg.InputPeerClass, error) {
	switch r.Kind {
	case "user":
		return &tg.InputPeerUser{UserID: r.ID, AccessHash: r.AccessHash}, nil
	case "chat":
		return &tg.InputPeerChat{ChatID: r.ID}, nil
	case "channel":
		return &tg.InputPeerChannel{ChannelID: r.ID, AccessHash: r.AccessHash}, nil
	default:
		return nil, fmt.Errorf("session: unknown record kind %q", r.Kind)
	}
}

// RedisStore is a go-redis backed Store for deployments where several
// processes share one entity cache. The client lifecycle is managed by
// the caller.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix overrides the default "gf:entity:" key prefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// WithTTL sets the per-record expiry. Zero means no expiry.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *RedisStore) key(id peer.ID) string {
	return s.prefix + strconv.FormatInt(int64(id), 10)
}

func (s *RedisStore) InputPeer(ctx context.Context, id peer.ID) (tg.InputPeerClass, error) {
	start := time.Now()
	defer func() {
		lookupDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("session: corrupt record for %d: %w", id, err)
	}
	return rec.inputPeer()
}

// Save writes every addressable snapshot entity in one pipeline.
func (s *RedisStore) Save(ctx context.Context, snapshot map[peer.ID]any) error {
	if len(snapshot) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	queued := 0
	for id, ent := range snapshot {
		input, ok := usableInput(ent)
		if !ok {
			continue
		}
		rec, err := encodeRecord(input)
		if err != nil {
			continue
		}
		raw, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		pipe.Set(ctx, s.key(id), raw, s.ttl)
		queued++
	}
	if queued == 0 {
		return nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	entitiesSaved.Add(float64(queued))
	return nil
}
