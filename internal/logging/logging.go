// Package logging provides the tab-separated slog handler shared by the CLI
// and the service entrypoints.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// handler formats log records as:
//
//	<timestamp>\t<level>\t<invocationID>\t<message>\t<key=value ...>
type handler struct {
	w            io.Writer
	invocationID string
	attrs        []slog.Attr
}

func (h *handler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time.UTC().Format("2006-01-02T15:04:05Z")
	level := r.Level.String()

	_, err := fmt.Fprintf(h.w, "%s\t%s\t%s\t%s", ts, level, h.invocationID, r.Message)
	if err != nil {
		return err
	}

	// Write pre-set attrs.
	for _, a := range h.attrs {
		fmt.Fprintf(h.w, "\t%s=%v", a.Key, a.Value)
	}

	// Write per-record attrs.
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(h.w, "\t%s=%v", a.Key, a.Value)
		return true
	})

	_, err = fmt.Fprintln(h.w)
	return err
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{
		w:            h.w,
		invocationID: h.invocationID,
		attrs:        append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *handler) WithGroup(string) slog.Handler { return h }

// New creates a structured logger writing to w, tagging every record with
// the given invocation id.
func New(w io.Writer, invocationID string) *slog.Logger {
	return slog.New(&handler{w: w, invocationID: invocationID})
}

// Adapter wraps *slog.Logger to satisfy the gits.Logger interface.
type Adapter struct {
	L *slog.Logger
}

func (a *Adapter) Debug(msg string, args ...any) { a.L.Debug(msg, args...) }
func (a *Adapter) Info(msg string, args ...any)  { a.L.Info(msg, args...) }
func (a *Adapter) Warn(msg string, args ...any)  { a.L.Warn(msg, args...) }
func (a *Adapter) Error(msg string, args ...any) { a.L.Error(msg, args...) }
