package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler duplicates log records to every wrapped handler, so records
// reach both stdout and the system_logs table. A slow or failing sink does
// not stop delivery to the others.
type MultiHandler struct {
	handlers []slog.Handler
}

func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Enabled reports true when at least one sink wants the level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every interested sink and joins any errors,
// rather than bailing out at the first failure.
func (m *MultiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	wrapped := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		wrapped[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: wrapped}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	wrapped := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		wrapped[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: wrapped}
}
