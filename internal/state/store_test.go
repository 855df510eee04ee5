package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_AbsentByDefault(t *testing.T) {
	store := NewStore(ModePrepare)
	st := store.State()

	assert.Equal(t, ModePrepare, st.Mode)
	assert.Equal(t, CompletionAbsent, st.PreparedFor("key-1"))
	assert.Equal(t, CompletionAbsent, st.SelfInitFor("key-1"))
}

func TestStore_FoldsStartThenEnd(t *testing.T) {
	store := NewStore(ModePrepare)

	store.Dispatch(Notification{Key: "key-1", PreparePass: true, Complete: false})
	assert.Equal(t, CompletionStarted, store.State().PreparedFor("key-1"))

	store.Dispatch(Notification{Key: "key-1", PreparePass: true, Complete: true})
	assert.Equal(t, CompletionDone, store.State().PreparedFor("key-1"))
}

func TestStore_PreparePassSelectsMap(t *testing.T) {
	store := NewStore(ModeInitSelf)

	store.Dispatch(Notification{Key: "key-1", PreparePass: false, Complete: true})

	st := store.State()
	assert.Equal(t, CompletionDone, st.SelfInitFor("key-1"))
	assert.Equal(t, CompletionAbsent, st.PreparedFor("key-1"))
}

func TestStore_NeverRevertsCompletion(t *testing.T) {
	store := NewStore(ModePrepare)

	store.Dispatch(Notification{Key: "key-1", PreparePass: true, Complete: true})
	// A late or duplicate start must not move Done back to Started.
	store.Dispatch(Notification{Key: "key-1", PreparePass: true, Complete: false})

	assert.Equal(t, CompletionDone, store.State().PreparedFor("key-1"))
}

func TestStore_KeysAreIndependent(t *testing.T) {
	store := NewStore(ModePrepare)

	store.Dispatch(Notification{Key: "key-1", PreparePass: true, Complete: false})
	store.Dispatch(Notification{Key: "key-2", PreparePass: true, Complete: true})

	st := store.State()
	assert.Equal(t, CompletionStarted, st.PreparedFor("key-1"))
	assert.Equal(t, CompletionDone, st.PreparedFor("key-2"))
}

func TestStore_SnapshotIsolation(t *testing.T) {
	store := NewStore(ModePrepare)
	store.Dispatch(Notification{Key: "key-1", PreparePass: true, Complete: false})

	snapshot := store.State()
	store.Dispatch(Notification{Key: "key-1", PreparePass: true, Complete: true})

	assert.Equal(t, CompletionStarted, snapshot.PreparedFor("key-1"),
		"snapshot must not observe later writes")
	assert.Equal(t, CompletionDone, store.State().PreparedFor("key-1"))
}

func TestStore_SetMode(t *testing.T) {
	store := NewStore(ModePrepare)
	store.SetMode(ModeInitSelf)
	assert.Equal(t, ModeInitSelf, store.State().Mode)
}

func TestCompletion_String(t *testing.T) {
	assert.Equal(t, "absent", CompletionAbsent.String())
	assert.Equal(t, "started", CompletionStarted.String())
	assert.Equal(t, "done", CompletionDone.String())
}
