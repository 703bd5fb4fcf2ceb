// Package database handles journal database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) configured
// for the request journal the history feature persists to. The default is a
// local sqlite file; a mysql connection lets several operators share one
// journal.
//
// # Connect
//
// The Connect function opens the configured database. The connection is
// optional for the CLI as a whole: commands that do not touch history never
// ask for it, and a failed open only disables recording.
//
// # Schema Inspection
//
// The package includes tools to inspect the database schema. A shared journal
// may predate the current table layout, so the history store verifies its
// models against the live tables before writing.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("journal database unavailable", zap.Error(err))
//	}
//
//	err = database.VerifyModel(db, history.Event{})
package database
