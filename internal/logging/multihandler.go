package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// MultiHandler fans every record out to a set of handlers. A failing
// handler does not stop the others; failures are counted.
type MultiHandler struct {
	handlers []slog.Handler
	failures *atomic.Uint64
}

// NewMultiHandler combines handlers, skipping nil entries.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	m := &MultiHandler{failures: new(atomic.Uint64)}
	for _, h := range handlers {
		if h != nil {
			m.handlers = append(m.handlers, h)
		}
	}
	return m
}

// Failures returns how many Handle calls of inner handlers returned an error.
func (m *MultiHandler) Failures() uint64 {
	return m.failures.Load()
}

// Enabled reports whether at least one handler accepts level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes a clone of r to every handler enabled for its level.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			m.failures.Add(1)
		}
	}
	return nil
}

// WithAttrs applies attrs to every handler.
func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

// WithGroup applies the group to every handler. An empty name is a no-op.
func (m *MultiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return m
	}
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *MultiHandler) derive(fn func(slog.Handler) slog.Handler) *MultiHandler {
	out := &MultiHandler{
		handlers: make([]slog.Handler, len(m.handlers)),
		failures: m.failures,
	}
	for i, h := range m.handlers {
		out.handlers[i] = fn(h)
	}
	return out
}
