// Package logging holds a swappable slog logger that discards records until
// one is set.
package logging

import (
	"log/slog"
	"sync/atomic"
)

var discard = slog.New(slog.DiscardHandler)

// Holder stores a logger. The zero value is ready to use and silent; it may
// be read and set from any goroutine.
type Holder struct {
	p atomic.Pointer[slog.Logger]
}

// Logger returns the stored logger, or a discarding one.
func (h *Holder) Logger() *slog.Logger {
	if l := h.p.Load(); l != nil {
		return l
	}
	return discard
}

// Set stores l. Nil restores silence.
func (h *Holder) Set(l *slog.Logger) {
	h.p.Store(l)
}
