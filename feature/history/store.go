package history

import (
	"context"
	"errors"
	"fmt"

	"mreg-cli/core/database"

	"gorm.io/gorm"
)

// Store persists events to the journal database.
type Store struct {
	db *gorm.DB
}

// NewStore migrates the journal tables. A shared mysql journal may deny the
// CLI DDL rights; that is fine as long as the centrally managed tables
// already match the models, so a failed migration falls back to schema
// verification instead of giving up.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Event{}, &Request{}); err != nil {
		for _, model := range []any{Event{}, Request{}} {
			if verifyErr := database.VerifyModel(db, model); verifyErr != nil {
				return nil, fmt.Errorf("migrating journal tables: %w", errors.Join(err, verifyErr))
			}
		}
	}
	return &Store{db: db}, nil
}

// SaveEvent writes the event and its requests in one transaction.
func (s *Store) SaveEvent(ctx context.Context, event *Event) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("saving event %q: %w", event.Command, err)
	}
	return nil
}

// Events lists all events oldest first, requests in execution order.
func (s *Store) Events(ctx context.Context) ([]Event, error) {
	var events []Event
	err := s.db.WithContext(ctx).
		Preload("Requests", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Order("id").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// EventByNumber fetches one event with its requests in execution order. A
// number that never existed returns gorm.ErrRecordNotFound wrapped with a
// readable message.
func (s *Store) EventByNumber(ctx context.Context, number uint) (*Event, error) {
	var event Event
	err := s.db.WithContext(ctx).
		Preload("Requests", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		First(&event, number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("invalid history command number: %d: %w", number, err)
	}
	if err != nil {
		return nil, fmt.Errorf("loading event %d: %w", number, err)
	}
	return &event, nil
}
