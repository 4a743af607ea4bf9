package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"
)

// DefaultMaxAttrLen is the default maximum length, in bytes, of a
// string attribute value. 512 bytes keeps one attribute within a
// terminal line or two while preserving enough context to identify the
// text being processed.
const DefaultMaxAttrLen = 512

// CapHandler wraps an slog.Handler and truncates oversized string
// attribute values before passing records on.
//
// Design decision: a handler wrapper rather than discipline at call
// sites, because page text flows through many log statements and a
// single forgotten call site would dump megabytes into the log. The
// wrapper works with any underlying handler (text, JSON).
type CapHandler struct {
	// handler is the underlying slog handler receiving capped records.
	handler slog.Handler

	// maxLen is the maximum string attribute length in bytes.
	maxLen int
}

// NewCapHandler creates a CapHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used. If maxLen is
// not positive, DefaultMaxAttrLen is used.
func NewCapHandler(handler slog.Handler, maxLen int) *CapHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxAttrLen
	}
	return &CapHandler{handler: handler, maxLen: maxLen}
}

// Enabled delegates to the underlying handler.
func (h *CapHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle caps the record's attributes and passes it on.
func (h *CapHandler) Handle(ctx context.Context, r slog.Record) error {
	capped := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		capped.AddAttrs(h.capAttr(a))
		return true
	})
	return h.handler.Handle(ctx, capped)
}

// WithAttrs returns a new handler with the given attributes added,
// capped first.
func (h *CapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cappedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		cappedAttrs[i] = h.capAttr(a)
	}
	return &CapHandler{handler: h.handler.WithAttrs(cappedAttrs), maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *CapHandler) WithGroup(name string) slog.Handler {
	return &CapHandler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// capAttr caps a single attribute, recursively handling groups.
func (h *CapHandler) capAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		cappedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			cappedAttrs[i] = h.capAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(cappedAttrs...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	v := a.Value.String()
	if len(v) <= h.maxLen {
		return a
	}

	// Cut on a rune boundary so truncated Cyrillic text stays valid UTF-8.
	cut := h.maxLen
	for cut > 0 && !utf8.RuneStart(v[cut]) {
		cut--
	}
	return slog.String(a.Key, fmt.Sprintf("%s... (%d bytes truncated)", v[:cut], len(v)-cut))
}

// NewLogger creates a *slog.Logger writing text output to w with
// oversized attributes capped.
//
// When verbose is true the level is Debug, otherwise Warn: progress
// reporting goes through the progress stream, not the log, so routine
// operation should be quiet.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewCapHandler(textHandler, DefaultMaxAttrLen))
}
