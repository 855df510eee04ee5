package manifest

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/preflight/internal/component"
	"github.com/roach88/preflight/internal/future"
)

// Action realizes the scripted behavior as an initialization action.
func (b *Behavior) Action() component.Action {
	behavior := *b
	return func(ctx context.Context, call component.ActionCall) any {
		if behavior.Bare {
			// Deliberately non-awaitable: exercises the engine's
			// boundary check.
			return behavior.Result
		}

		if behavior.DelayMS > 0 {
			delay := time.Duration(behavior.DelayMS) * time.Millisecond
			return future.Go(func() (any, error) {
				timer := time.NewTimer(delay)
				defer timer.Stop()
				select {
				case <-timer.C:
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				return behavior.settle()
			})
		}

		v, err := behavior.settle()
		if err != nil {
			return future.Reject(err)
		}
		return future.Resolve(v)
	}
}

func (b Behavior) settle() (any, error) {
	if b.Fail != "" {
		return nil, fmt.Errorf("scripted failure: %s", b.Fail)
	}
	return b.Result, nil
}
