package future

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	v, err := Resolve("A").Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", v)
}

func TestResolve_NilPlaceholder(t *testing.T) {
	v, err := Resolve(nil).Await(context.Background())
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestReject(t *testing.T) {
	boom := errors.New("boom")
	_, err := Reject(boom).Await(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestGo_SettlesWithOutcome(t *testing.T) {
	aw := Go(func() (any, error) { return 7, nil })
	v, err := aw.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestGo_AwaitTwiceObservesSameOutcome(t *testing.T) {
	aw := Go(func() (any, error) { return "once", nil })

	v1, err1 := aw.Await(context.Background())
	v2, err2 := aw.Await(context.Background())
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, v1, v2)
}

func TestGo_AwaitRespectsContext(t *testing.T) {
	block := make(chan struct{})
	aw := Go(func() (any, error) {
		<-block
		return "late", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := aw.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	// The producer keeps running and the outcome is retained.
	close(block)
	v, err := aw.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "late", v)
}

func TestSettled_AwaitRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Resolve("A").Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
