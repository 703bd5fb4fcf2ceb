package history

import (
	"context"
	"net/http"
	"sync"

	"mreg-cli/core/mreg"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recorder buffers the requests of one command and commits them as a single
// event. It implements mreg.Journal, so attaching it to the client is all a
// command needs to do to become part of history.
type Recorder struct {
	store *Store
	log   *zap.Logger

	mu      sync.Mutex
	pending []mreg.JournalEntry
}

// NewRecorder creates a Recorder writing to the given store.
func NewRecorder(store *Store, log *zap.Logger) *Recorder {
	return &Recorder{store: store, log: log}
}

// RecordRequest buffers one successful mutation.
func (r *Recorder) RecordRequest(e mreg.JournalEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, e)
}

// Discard drops the buffered requests without committing them.
func (r *Recorder) Discard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = nil
}

// Commit persists the buffered requests as one event named after the
// command line that caused them. A command that performed no mutations
// leaves no event behind.
func (r *Recorder) Commit(ctx context.Context, command string) error {
	r.mu.Lock()
	entries := r.pending
	r.pending = nil
	r.mu.Unlock()

	if len(entries) == 0 {
		return nil
	}

	event := &Event{
		EventID:  uuid.NewString(),
		Command:  command,
		Redoable: true,
		Undoable: true,
	}
	for i, entry := range entries {
		if !redoable(entry) {
			event.Redoable = false
		}
		if !undoable(entry) {
			event.Undoable = false
		}
		event.Requests = append(event.Requests, Request{
			Seq:      i,
			Method:   entry.Method,
			URL:      entry.URL,
			Body:     string(entry.Body),
			Previous: string(entry.Previous),
			UndoURL:  entry.UndoURL,
		})
	}

	if err := r.store.SaveEvent(ctx, event); err != nil {
		return err
	}
	r.log.Debug("recorded history event",
		zap.Uint("number", event.ID),
		zap.String("command", command),
		zap.Int("requests", len(event.Requests)))
	return nil
}

// redoable reports whether the entry can be replayed forward. A replay needs
// the original payload for POST and PATCH; a DELETE needs only its URL.
func redoable(e mreg.JournalEntry) bool {
	switch e.Method {
	case http.MethodPost, http.MethodPatch:
		return len(e.Body) > 0
	default:
		return true
	}
}

// undoable reports whether the entry can be reversed. A POST needs the
// created item's URL to DELETE; a PATCH needs the previous state to restore;
// a DELETE needs both the previous state and the collection URL to POST it
// back to.
func undoable(e mreg.JournalEntry) bool {
	switch e.Method {
	case http.MethodPost:
		return e.UndoURL != ""
	case http.MethodPatch:
		return len(e.Previous) > 0
	case http.MethodDelete:
		return e.UndoURL != "" && len(e.Previous) > 0
	default:
		return true
	}
}
