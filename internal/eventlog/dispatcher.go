package eventlog

import (
	"context"
	"log/slog"

	"github.com/roach88/preflight/internal/state"
)

// Dispatcher forwards every notification to an inner sink and appends it to
// the log.
//
// The fold into completion state must not be held hostage by disk trouble,
// so append failures are logged and otherwise ignored; the inner sink has
// already been updated by then.
type Dispatcher struct {
	inner  state.Dispatcher
	log    *Log
	logger *slog.Logger
}

// NewDispatcher wraps inner with durable logging into log.
func NewDispatcher(inner state.Dispatcher, log *Log, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{inner: inner, log: log, logger: logger}
}

// Dispatch implements state.Dispatcher.
func (d *Dispatcher) Dispatch(n state.Notification) {
	d.inner.Dispatch(n)
	if err := d.log.Append(context.Background(), n); err != nil {
		d.logger.Error("failed to append init event", "key", n.Key, "error", err)
	}
}
