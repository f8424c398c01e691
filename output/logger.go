package output

import (
	"log/slog"

	"github.com/celer/vkreplay/internal/logging"
)

var logs logging.Holder

func slogger() *slog.Logger { return logs.Logger() }

// SetLogger sets the logger used by the package. Nil restores silence.
func SetLogger(l *slog.Logger) { logs.Set(l) }
