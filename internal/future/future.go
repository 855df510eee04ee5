// Package future provides the awaitable values that initialization actions
// return and the engine awaits.
//
// Actions are invoked synchronously and must hand back an Awaitable; the
// engine's only suspension points are the two Await calls on the primary and
// restricted results. Resolve and Reject build already-settled awaitables
// (the "skipped action" placeholder is Resolve(nil)); Go runs a function on
// its own goroutine and settles when it returns.
package future

import "context"

// Awaitable is a value that can be awaited once its producer settles.
//
// Await blocks until the value is settled or ctx is done, whichever comes
// first. Await may be called multiple times; every call observes the same
// settled outcome.
type Awaitable interface {
	Await(ctx context.Context) (any, error)
}

// settled is an Awaitable that was settled at construction time.
type settled struct {
	value any
	err   error
}

func (s settled) Await(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.value, s.err
}

// Resolve returns an Awaitable already settled with value.
func Resolve(value any) Awaitable {
	return settled{value: value}
}

// Reject returns an Awaitable already settled with err.
func Reject(err error) Awaitable {
	return settled{err: err}
}

// task is a goroutine-backed Awaitable.
type task struct {
	done  chan struct{}
	value any
	err   error
}

// Go runs fn on a new goroutine and returns an Awaitable that settles with
// fn's outcome.
//
// There is no cancellation: once started, fn runs to completion or failure.
// Await respects its context and may return early, but the goroutine keeps
// running and its outcome is retained for later Await calls.
func Go(fn func() (any, error)) Awaitable {
	t := &task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.value, t.err = fn()
	}()
	return t
}

func (t *task) Await(ctx context.Context) (any, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
