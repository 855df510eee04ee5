package state

import "sync"

// Store is the reference in-memory notification sink.
//
// It folds Notifications into the two completion maps with forward-only
// transitions: Absent → Started → Done. A notification that would move a
// record backward (a start arriving after the key is already Done) is
// ignored rather than applied, so completion records never revert.
//
// Thread-safety: guarded by a single mutex. Each key's record is written
// only by the invocation that owns that key's in-flight run, so contention
// is negligible; the mutex exists for cross-key concurrent runs.
type Store struct {
	mu       sync.Mutex
	mode     Mode
	prepared map[string]Completion
	selfInit map[string]Completion
}

// NewStore creates an empty Store in the given mode.
func NewStore(mode Mode) *Store {
	return &Store{
		mode:     mode,
		prepared: make(map[string]Completion),
		selfInit: make(map[string]Completion),
	}
}

// SetMode sets the current rendering mode.
//
// Called once per pass by the external pass coordinator, never by the
// engine.
func (s *Store) SetMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

// Dispatch folds a notification into the matching completion map.
// Implements Dispatcher.
func (s *Store) Dispatch(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.selfInit
	if n.PreparePass {
		m = s.prepared
	}

	next := CompletionStarted
	if n.Complete {
		next = CompletionDone
	}

	// Forward-only: never revert Done to Started.
	if next > m[n.Key] {
		m[n.Key] = next
	}
}

// State returns a snapshot of the current InitState.
//
// The maps are copied so callers can hold the snapshot across an await
// without observing later writes.
func (s *Store) State() InitState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return InitState{
		Mode:     s.mode,
		Prepared: copyCompletions(s.prepared),
		SelfInit: copyCompletions(s.selfInit),
	}
}

func copyCompletions(m map[string]Completion) map[string]Completion {
	out := make(map[string]Completion, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
