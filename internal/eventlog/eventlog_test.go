package eventlog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/preflight/internal/state"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	log, err := Open(filepath.Join(t.TempDir(), "preflight.db"))
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preflight.db")

	log1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, log1.Close())

	log2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, log2.Close())
}

func TestAppendAndReadAll(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, state.Notification{Key: "key-1", PreparePass: true}))
	require.NoError(t, log.Append(ctx, state.Notification{Key: "key-1", PreparePass: true, Complete: true}))

	events, err := log.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, int64(1), events[0].Seq)
	assert.Equal(t, state.Notification{Key: "key-1", PreparePass: true, Complete: false}, events[0].Note)
	assert.Equal(t, state.Notification{Key: "key-1", PreparePass: true, Complete: true}, events[1].Note)
	assert.NotEmpty(t, events[0].RecordedAt)
}

func TestReadAll_EmptyLog(t *testing.T) {
	log := openTestLog(t)

	events, err := log.ReadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestReadKey_Filters(t *testing.T) {
	log := openTestLog(t)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, state.Notification{Key: "key-1"}))
	require.NoError(t, log.Append(ctx, state.Notification{Key: "key-2"}))
	require.NoError(t, log.Append(ctx, state.Notification{Key: "key-1", Complete: true}))

	events, err := log.ReadKey(ctx, "key-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, "key-1", ev.Note.Key)
	}
}

func TestDispatcher_ForwardsAndLogs(t *testing.T) {
	log := openTestLog(t)
	store := state.NewStore(state.ModePrepare)
	d := NewDispatcher(store, log, nil)

	d.Dispatch(state.Notification{Key: "key-1", PreparePass: true})
	d.Dispatch(state.Notification{Key: "key-1", PreparePass: true, Complete: true})

	// Inner sink folded state.
	assert.Equal(t, state.CompletionDone, store.State().PreparedFor("key-1"))

	// Log recorded both events in order.
	events, err := log.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.False(t, events[0].Note.Complete)
	assert.True(t, events[1].Note.Complete)
}
