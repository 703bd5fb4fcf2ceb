package history

import (
	"fmt"
	"time"
)

// Event is one CLI command's worth of journaled requests. The numeric ID is
// what operators pass to undo and redo.
type Event struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	EventID   string    `gorm:"column:event_id;type:varchar(36);uniqueIndex"`
	Command   string    `gorm:"column:command;type:varchar(255)"`
	CreatedAt time.Time `gorm:"column:created_at"`
	Redoable  bool      `gorm:"column:redoable"`
	Undoable  bool      `gorm:"column:undoable"`
	Requests  []Request `gorm:"foreignKey:EventRef;references:ID;constraint:OnDelete:CASCADE"`
}

func (Event) TableName() string {
	return "events"
}

// String renders the event the way the history list prints it: the event
// number and command, then one indented line per request.
func (e Event) String() string {
	s := fmt.Sprintf("%-3d %s:", e.ID, e.Command)
	for _, request := range e.Requests {
		s += fmt.Sprintf("\n\t%s %s", request.Method, request.URL)
	}
	return s
}

// Request is one journaled API mutation within an event.
type Request struct {
	ID       uint   `gorm:"primaryKey;column:id"`
	EventRef uint   `gorm:"column:event_ref;index"`
	Seq      int    `gorm:"column:seq"`
	Method   string `gorm:"column:method;type:varchar(8)"`
	URL      string `gorm:"column:url;type:varchar(512)"`
	Body     string `gorm:"column:body;type:text"`
	Previous string `gorm:"column:previous;type:text"`
	UndoURL  string `gorm:"column:undo_url;type:varchar(512)"`
}

func (Request) TableName() string {
	return "requests"
}
