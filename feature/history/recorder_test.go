package history

import (
	"context"
	"testing"

	"mreg-cli/core/mreg"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRecorder_Commit(t *testing.T) {
	store := testStore(t)
	r := NewRecorder(store, zap.NewNop())
	ctx := context.Background()

	r.RecordRequest(mreg.JournalEntry{
		Method:  "POST",
		URL:     "http://mreg/hosts/",
		Body:    []byte(`{"name":"foo"}`),
		UndoURL: "http://mreg/hosts/foo",
	})
	r.RecordRequest(mreg.JournalEntry{
		Method:   "PATCH",
		URL:      "http://mreg/hosts/foo",
		Body:     []byte(`{"comment":"x"}`),
		Previous: []byte(`{"comment":""}`),
	})
	require.NoError(t, r.Commit(ctx, "host add foo"))

	events, err := store.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)

	event := events[0]
	assert.Equal(t, "host add foo", event.Command)
	assert.True(t, event.Redoable)
	assert.True(t, event.Undoable)
	_, err = uuid.Parse(event.EventID)
	assert.NoError(t, err)

	require.Len(t, event.Requests, 2)
	assert.Equal(t, 0, event.Requests[0].Seq)
	assert.Equal(t, "POST", event.Requests[0].Method)
	assert.Equal(t, `{"name":"foo"}`, event.Requests[0].Body)
	assert.Equal(t, 1, event.Requests[1].Seq)
	assert.Equal(t, `{"comment":""}`, event.Requests[1].Previous)

	// The buffer is drained: committing again records nothing.
	require.NoError(t, r.Commit(ctx, "host add foo"))
	events, err = store.Events(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestRecorder_EmptyCommitLeavesNoEvent(t *testing.T) {
	store := testStore(t)
	r := NewRecorder(store, zap.NewNop())

	require.NoError(t, r.Commit(context.Background(), "host info foo"))

	events, err := store.Events(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRecorder_Discard(t *testing.T) {
	store := testStore(t)
	r := NewRecorder(store, zap.NewNop())

	r.RecordRequest(mreg.JournalEntry{Method: "POST", URL: "http://mreg/hosts/"})
	r.Discard()
	require.NoError(t, r.Commit(context.Background(), "host add foo"))

	events, err := store.Events(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRecorder_Flags(t *testing.T) {
	tests := []struct {
		name     string
		entry    mreg.JournalEntry
		redoable bool
		undoable bool
	}{
		{
			name: "post with item url",
			entry: mreg.JournalEntry{
				Method: "POST", URL: "http://mreg/hosts/",
				Body: []byte(`{}`), UndoURL: "http://mreg/hosts/foo",
			},
			redoable: true,
			undoable: true,
		},
		{
			name: "post with server-assigned id",
			entry: mreg.JournalEntry{
				Method: "POST", URL: "http://mreg/cnames/",
				Body: []byte(`{}`),
			},
			redoable: true,
			undoable: false,
		},
		{
			name: "patch without captured state",
			entry: mreg.JournalEntry{
				Method: "PATCH", URL: "http://mreg/hosts/foo",
				Body: []byte(`{}`),
			},
			redoable: true,
			undoable: false,
		},
		{
			name: "delete with state and collection",
			entry: mreg.JournalEntry{
				Method: "DELETE", URL: "http://mreg/hosts/foo",
				Previous: []byte(`{}`), UndoURL: "http://mreg/hosts/",
			},
			redoable: true,
			undoable: true,
		},
		{
			name: "delete without captured state",
			entry: mreg.JournalEntry{
				Method: "DELETE", URL: "http://mreg/hosts/foo",
				UndoURL: "http://mreg/hosts/",
			},
			redoable: true,
			undoable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testStore(t)
			r := NewRecorder(store, zap.NewNop())
			r.RecordRequest(tt.entry)
			require.NoError(t, r.Commit(context.Background(), "cmd"))

			events, err := store.Events(context.Background())
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.Equal(t, tt.redoable, events[0].Redoable)
			assert.Equal(t, tt.undoable, events[0].Undoable)
		})
	}
}
