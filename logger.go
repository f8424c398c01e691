package vkreplay

import (
	"log/slog"

	"github.com/celer/vkreplay/internal/logging"
	"github.com/celer/vkreplay/output"
	"github.com/celer/vkreplay/pipestate"
)

var logs logging.Holder

func slogger() *slog.Logger { return logs.Logger() }

// SetLogger sets the logger used by this package, the output manager and
// the pipeline state builder. Nil restores silence.
func SetLogger(l *slog.Logger) {
	logs.Set(l)
	output.SetLogger(l)
	pipestate.SetLogger(l)
}
