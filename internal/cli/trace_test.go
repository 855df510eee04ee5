package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/preflight/internal/eventlog"
	"github.com/roach88/preflight/internal/state"
)

func seedEventLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preflight.db")

	log, err := eventlog.Open(path)
	require.NoError(t, err)
	defer log.Close()

	ctx := context.Background()
	require.NoError(t, log.Append(ctx, state.Notification{Key: "key-1", PreparePass: true}))
	require.NoError(t, log.Append(ctx, state.Notification{Key: "key-1", PreparePass: true, Complete: true}))
	require.NoError(t, log.Append(ctx, state.Notification{Key: "key-2"}))
	return path
}

func TestTraceText(t *testing.T) {
	db := seedEventLog(t)

	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", db})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "key-1")
	assert.Contains(t, output, "key-2")
	assert.Contains(t, output, "prepare")
	assert.Contains(t, output, "self_init")
	assert.Contains(t, output, "3 event(s)")
}

func TestTraceJSON(t *testing.T) {
	db := seedEventLog(t)

	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", db})

	err := cmd.Execute()
	require.NoError(t, err)

	var events []eventlog.Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &events))
	require.Len(t, events, 3)
	assert.Equal(t, int64(1), events[0].Seq)
	assert.Equal(t, "key-1", events[0].Note.Key)
}

func TestTraceKeyFilter(t *testing.T) {
	db := seedEventLog(t)

	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", db, "--key", "key-2"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "key-2")
	assert.NotContains(t, output, "key-1")
	assert.Contains(t, output, "1 event(s)")
}

func TestTraceMissingDatabase(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewTraceCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--db", filepath.Join(t.TempDir(), "nope.db")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
