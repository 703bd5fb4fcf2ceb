package history

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Replayer re-issues a journaled request without journaling it again. The
// mreg client implements it.
type Replayer interface {
	Replay(ctx context.Context, method, url string, body []byte) error
}

// Service lists, undoes and redoes journaled events.
type Service struct {
	store  *Store
	client Replayer
	log    *zap.Logger
}

// NewService creates a Service over the given store and client.
func NewService(store *Store, client Replayer, log *zap.Logger) *Service {
	return &Service{store: store, client: client, log: log}
}

// Events lists all journaled events, oldest first.
func (s *Service) Events(ctx context.Context) ([]Event, error) {
	return s.store.Events(ctx)
}

// Undo reverses the event with the given number, newest request first: a
// POST becomes a DELETE of the created item, a PATCH restores the previous
// state, a DELETE posts the previous state back to its collection. The first
// failing request stops the undo.
func (s *Service) Undo(ctx context.Context, number uint) error {
	event, err := s.store.EventByNumber(ctx, number)
	if err != nil {
		return err
	}
	if !event.Undoable {
		return fmt.Errorf("cannot undo %s", event.Command)
	}

	for i := len(event.Requests) - 1; i >= 0; i-- {
		request := event.Requests[i]
		var replayErr error
		switch request.Method {
		case http.MethodPost:
			replayErr = s.client.Replay(ctx, http.MethodDelete, request.UndoURL, nil)
		case http.MethodPatch:
			replayErr = s.client.Replay(ctx, http.MethodPatch, request.URL, []byte(request.Previous))
		case http.MethodDelete:
			replayErr = s.client.Replay(ctx, http.MethodPost, request.UndoURL, []byte(request.Previous))
		default:
			continue
		}
		if replayErr != nil {
			return fmt.Errorf("undoing %s %s: %w", request.Method, request.URL, replayErr)
		}
	}

	s.log.Info("undid history event",
		zap.Uint("number", event.ID),
		zap.String("command", event.Command))
	return nil
}

// Redo replays the event with the given number in its original order. The
// first failing request stops the redo.
func (s *Service) Redo(ctx context.Context, number uint) error {
	event, err := s.store.EventByNumber(ctx, number)
	if err != nil {
		return err
	}
	if !event.Redoable {
		return fmt.Errorf("cannot redo %s", event.Command)
	}

	for _, request := range event.Requests {
		var replayErr error
		switch request.Method {
		case http.MethodPost, http.MethodPatch:
			replayErr = s.client.Replay(ctx, request.Method, request.URL, []byte(request.Body))
		case http.MethodDelete:
			replayErr = s.client.Replay(ctx, http.MethodDelete, request.URL, nil)
		default:
			continue
		}
		if replayErr != nil {
			return fmt.Errorf("redoing %s %s: %w", request.Method, request.URL, replayErr)
		}
	}

	s.log.Info("redid history event",
		zap.Uint("number", event.ID),
		zap.String("command", event.Command))
	return nil
}
