package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inspectedEvent struct {
	ID      uint   `gorm:"primaryKey;column:id"`
	EventID string `gorm:"column:event_id"`
	Command string `gorm:"column:command"`
}

func (inspectedEvent) TableName() string {
	return "inspected_events"
}

type untabledModel struct {
	ID uint `gorm:"primaryKey;column:id"`
}

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", File: ":memory:"})
	require.NoError(t, err)

	// SQLite specific types: INTEGER, TEXT.
	err = db.Exec("CREATE TABLE inspected_events (id INTEGER PRIMARY KEY, event_id TEXT, command TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "inspected_events")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["event_id"])
	assert.Equal(t, "text", colMap["command"])

	// PRAGMA table_info returns an empty result for a non-existent table,
	// no error.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestVerifyModel(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", File: ":memory:"})
	require.NoError(t, err)

	t.Run("Matching Schema", func(t *testing.T) {
		require.NoError(t, db.Exec("CREATE TABLE inspected_events (id INTEGER PRIMARY KEY, event_id TEXT, command TEXT)").Error)
		assert.NoError(t, VerifyModel(db, inspectedEvent{}))
		assert.NoError(t, VerifyModel(db, &inspectedEvent{}))
	})

	t.Run("Missing Column", func(t *testing.T) {
		require.NoError(t, db.Exec("DROP TABLE inspected_events").Error)
		require.NoError(t, db.Exec("CREATE TABLE inspected_events (id INTEGER PRIMARY KEY, event_id TEXT)").Error)

		err := VerifyModel(db, inspectedEvent{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing columns: command")
	})

	t.Run("Model Without TableName", func(t *testing.T) {
		err := VerifyModel(db, untabledModel{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not implement TableName")
	})
}
