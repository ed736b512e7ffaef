package relog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// SlogHandler adapts a Logger into an slog.Handler so existing code
// written against the standard library's structured-logging facade can
// be routed through this package's level filtering, rotation and
// sinks without any call-site changes.
type SlogHandler struct {
	l      *Logger
	attrs  []slog.Attr
	groups []string
}

var _ slog.Handler = (*SlogHandler)(nil)

// NewSlogHandler wraps l as an slog.Handler.
func NewSlogHandler(l *Logger) *SlogHandler {
	return &SlogHandler{l: l}
}

// slogToLevel maps slog's integer level scale onto this package's
// discrete hierarchy. slog has no native Trace or Fatal; levels below
// Debug fall to Trace and levels at or above Error+4 (a caller-defined
// "critical" tier some slog users adopt) fall to Fatal.
func slogToLevel(sl slog.Level) Level {
	switch {
	case sl < slog.LevelDebug:
		return Trace
	case sl < slog.LevelInfo:
		return Debug
	case sl < slog.LevelWarn:
		return Info
	case sl < slog.LevelError:
		return Warn
	case sl < slog.LevelError+4:
		return Error
	default:
		return Fatal
	}
}

func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.l.Loggable(slogToLevel(level))
}

func (h *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)

	write := func(a slog.Attr) bool {
		key := a.Key
		if len(h.groups) > 0 {
			key = strings.Join(h.groups, ".") + "." + key
		}
		fmt.Fprintf(&b, " %s=%v", key, a.Value.Any())
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)

	h.l.log(4, slogToLevel(r.Level), b.String())
	return nil
}

func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := &SlogHandler{l: h.l, groups: h.groups}
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return nh
}

func (h *SlogHandler) WithGroup(name string) slog.Handler {
	nh := &SlogHandler{l: h.l, attrs: h.attrs}
	nh.groups = append(append([]string{}, h.groups...), name)
	return nh
}
