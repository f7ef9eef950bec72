package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/gramflow/gramflow/cmd/gramflow/internal"
	"github.com/gramflow/gramflow/pkg/config"
	"github.com/gramflow/gramflow/pkg/dispatch"
	"github.com/gramflow/gramflow/pkg/events"
	"github.com/gramflow/gramflow/pkg/feed"
	"github.com/gramflow/gramflow/pkg/logger"
	"github.com/gramflow/gramflow/pkg/session"
)

func NewSimulateCommand() *cobra.Command {
	var (
		configPath string
		chats      []string
		blacklist  bool
		kind       string
		listen     string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Stream a synthesized update sequence through a real dispatcher",
		Args:  cobra.NoArgs,
		Example: `  gramflow simulate
  gramflow simulate --chats 123
  gramflow simulate --chats -100123 --blacklist
  gramflow simulate --chats @announcements --kind all
  gramflow simulate --kind raw --listen 127.0.0.1:8765`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := internal.LoadConfig(configPath)
			if err != nil {
				return err
			}
			internal.ApplyLogLevel(cfg.LogLevel)

			specs := config.FlexibleStringSlice(chats).Specifiers()
			if len(chats) == 0 {
				specs = cfg.Simulator.Chats.Specifiers()
				if !cmd.Flags().Changed("blacklist") {
					blacklist = cfg.Simulator.Blacklist
				}
			}

			return run(cmd.Context(), cfg, specs, blacklist, kind, listen)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: ~/.gramflow/config.json)")
	cmd.Flags().StringSliceVar(&chats, "chats", nil, "Chat specifiers: ids, marked ids or @usernames")
	cmd.Flags().BoolVar(&blacklist, "blacklist", false, "Keep events outside the chat scope instead of inside")
	cmd.Flags().StringVar(&kind, "kind", "new", "Event kind to register: new, edited, deleted, raw or all")
	cmd.Flags().StringVar(&listen, "listen", "", "Also serve surviving events on a websocket feed at this address")

	return cmd
}

func buildStore(cfg *config.Config) (session.Store, *session.MemoryStore, error) {
	switch cfg.Session.Backend {
	case "redis":
		opt, err := redis.ParseURL(cfg.Session.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing redis url: %w", err)
		}
		store := session.NewRedisStore(redis.NewClient(opt),
			session.WithKeyPrefix(cfg.Session.RedisKeyPrefix),
			session.WithTTL(cfg.Session.EntityTTL()),
		)
		return store, nil, nil
	default:
		mem := session.NewMemoryStore()
		return mem, mem, nil
	}
}

func builders(kind string, opts events.Options) ([]events.Builder, error) {
	switch kind {
	case "new":
		return []events.Builder{events.NewMessages(events.NewMessageOptions{Options: opts})}, nil
	case "edited":
		return []events.Builder{events.MessagesEdited(opts)}, nil
	case "deleted":
		return []events.Builder{events.MessagesDeleted(opts)}, nil
	case "raw":
		return []events.Builder{events.RawUpdates(opts)}, nil
	case "all":
		return []events.Builder{
			events.NewMessages(events.NewMessageOptions{Options: opts}),
			events.MessagesEdited(opts),
			events.MessagesDeleted(opts),
			events.RawUpdates(events.Options{}),
		}, nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}
}

func run(ctx context.Context, cfg *config.Config, specs []any, blacklist bool, kind, listen string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, mem, err := buildStore(cfg)
	if err != nil {
		return err
	}
	if mem != nil {
		janitor, err := session.NewJanitor(mem, cfg.Session.JanitorCron, cfg.Session.EntityTTL())
		if err != nil {
			return err
		}
		go janitor.Run(ctx)
	}

	dir, err := fixtureDirectory(store)
	if err != nil {
		return err
	}
	disp := dispatch.NewDispatcher(dir, dispatch.WithStore(store))

	var hub *feed.Hub
	if listen != "" {
		hub = feed.NewHub()
		defer hub.Close()
		srv := &http.Server{Addr: listen, Handler: hub}
		go func() {
			logger.InfoCF("simulate", "serving event feed", map[string]any{"addr": listen})
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.ErrorCF("simulate", "feed server failed", map[string]any{"error": err.Error()})
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	enc := json.NewEncoder(os.Stdout)
	handler := func(_ context.Context, ev events.Event) error {
		if hub != nil {
			hub.Publish(ev.ToMap())
		}
		return enc.Encode(ev.ToMap())
	}

	opts := events.Options{Chats: specs, BlacklistChats: blacklist}
	bs, err := builders(kind, opts)
	if err != nil {
		return err
	}
	for _, b := range bs {
		if _, err := disp.Handle(ctx, b, handler); err != nil {
			return err
		}
	}

	for _, upd := range fixtureScript() {
		if err := disp.Dispatch(ctx, upd); err != nil {
			return err
		}
	}

	if hub != nil {
		logger.InfoC("simulate", "script finished, feed stays up until interrupted")
		select {
		case <-ctx.Done():
		case <-time.After(time.Hour):
		}
	}
	return nil
}
