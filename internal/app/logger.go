package app

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"
)

var level = new(slog.LevelVar)

// Logger returns the logger singleton
var Logger = sync.OnceValue(func() *slog.Logger {
	// stdout is left free for piping the feed out
	baseHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	handler := &loggerHandler{handler: baseHandler}

	return slog.New(handler)
})

// SetLevel changes the minimum level of the logger singleton
func SetLevel(l slog.Level) {
	level.Set(l)
}

type loggerHandler struct {
	handler slog.Handler
}

func (h *loggerHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *loggerHandler) Handle(ctx context.Context, r slog.Record) error {
	// Convert the time to UTC and truncate microseconds
	r.Time = r.Time.UTC().Truncate(time.Second)
	return h.handler.Handle(ctx, r)
}

func (h *loggerHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &loggerHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *loggerHandler) WithGroup(name string) slog.Handler {
	return &loggerHandler{handler: h.handler.WithGroup(name)}
}
