// Package testutil provides deterministic test doubles for the engine's
// collaborators.
package testutil

import (
	"sync"

	"github.com/roach88/preflight/internal/state"
)

// Recorder captures notifications in dispatch order while forwarding them
// to an inner sink.
//
// Tests use it to assert the exact notification sequence (start before end,
// end exactly once) while still folding state the way production does.
//
// Thread-safety: safe for concurrent dispatch.
type Recorder struct {
	mu    sync.Mutex
	inner state.Dispatcher
	notes []state.Notification
}

// NewRecorder creates a Recorder forwarding to inner. A nil inner records
// without forwarding.
func NewRecorder(inner state.Dispatcher) *Recorder {
	return &Recorder{inner: inner}
}

// Dispatch implements state.Dispatcher.
func (r *Recorder) Dispatch(n state.Notification) {
	r.mu.Lock()
	r.notes = append(r.notes, n)
	r.mu.Unlock()

	if r.inner != nil {
		r.inner.Dispatch(n)
	}
}

// Notifications returns a copy of everything dispatched so far, in order.
func (r *Recorder) Notifications() []state.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]state.Notification, len(r.notes))
	copy(out, r.notes)
	return out
}
