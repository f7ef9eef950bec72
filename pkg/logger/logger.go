// Package logger provides leveled, component-tagged logging for all
// gramflow packages. It is a thin wrapper over log/slog so output stays
// machine-parseable while call sites stay one-liners.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"
)

// Level aliases slog.Level so callers never import slog directly.
type Level = slog.Level

const (
	DEBUG Level = slog.LevelDebug
	INFO  Level = slog.LevelInfo
	WARN  Level = slog.LevelWarn
	ERROR Level = slog.LevelError
)

var (
	mu       sync.RWMutex
	levelVar = func() *slog.LevelVar {
		v := new(slog.LevelVar)
		v.Set(INFO)
		return v
	}()
	std = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar}))
)

// SetLevel changes the minimum level for all subsequent log calls.
func SetLevel(l Level) {
	levelVar.Set(l)
}

// SetOutput redirects log output, rebuilding the underlying handler.
// Mostly useful in tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar}))
}

func logC(level Level, component, msg string, fields map[string]any) {
	mu.RLock()
	l := std
	mu.RUnlock()

	attrs := make([]any, 0, 2+2*len(fields))
	attrs = append(attrs, "component", component)
	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			attrs = append(attrs, k, fields[k])
		}
	}
	l.Log(context.Background(), level, msg, attrs...)
}

func DebugC(component, msg string) { logC(DEBUG, component, msg, nil) }

func DebugCF(component, msg string, fields map[string]any) { logC(DEBUG, component, msg, fields) }

func InfoC(component, msg string) { logC(INFO, component, msg, nil) }

func InfoCF(component, msg string, fields map[string]any) { logC(INFO, component, msg, fields) }

func WarnC(component, msg string) { logC(WARN, component, msg, nil) }

func WarnCF(component, msg string, fields map[string]any) { logC(WARN, component, msg, fields) }

func ErrorC(component, msg string) { logC(ERROR, component, msg, nil) }

func ErrorCF(component, msg string, fields map[string]any) { logC(ERROR, component, msg, fields) }
