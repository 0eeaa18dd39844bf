package progress

import (
	"monks.co/zreplicate/logger"
)

var _ logger.Logger = &ProcessLogger{}

// Logger returns a logger that writes to both the standard log and
// ProcessLogs.
func (pl *ProcessLogs) Logger(label string) *ProcessLogger {
	return &ProcessLogger{
		logs:  pl,
		inner: logger.New(label),
	}
}

type ProcessLogger struct {
	logs  *ProcessLogs
	inner logger.Logger
}

func (pl *ProcessLogger) Printf(s string, args ...any) {
	pl.inner.Printf(s, args...)
	pl.logs.Log(s, args...)
}
