package diag

import (
	"errors"

	"github.com/go-logr/logr"
)

// Logr adapts a logr.Logger to Sink. Errors are logged with Error,
// warnings at V(0), info at V(1) and plain messages at V(2).
type Logr struct {
	logger logr.Logger
}

// NewLogr wraps logger.
func NewLogr(logger logr.Logger) *Logr {
	return &Logr{logger: logger}
}

// Push forwards the message with its channel as a key/value pair.
func (l *Logr) Push(msg string, sev Severity, channel string) {
	switch sev {
	case Error:
		l.logger.Error(errors.New(msg), "emulator error", "channel", channel)
	case Warning:
		l.logger.Info(msg, "channel", channel, "severity", sev.String())
	case Info:
		l.logger.V(1).Info(msg, "channel", channel)
	default:
		l.logger.V(2).Info(msg, "channel", channel)
	}
}
