// Package history journals every mutating API request and replays them.
//
// Each CLI command that changes something becomes one event holding the
// requests it performed, in order. Events persist in the journal database
// (core/database), so history survives across sessions and, with a mysql
// journal, across operators.
//
// # Recording
//
// The Recorder implements mreg.Journal. The command layer attaches it to the
// API client before running a command and commits it afterwards; commands
// that performed no mutations leave no event.
//
// # Undo and redo
//
// Undo walks an event's requests newest first and issues the inverse of
// each: DELETE for a POST, the previous state for a PATCH, a restoring POST
// for a DELETE. Redo replays the original requests in order. Both go through
// the client's Replay call, which never journals, so replaying history does
// not create new events.
//
// Not every event can be reversed. A created resource whose URL the client
// could not predict (server-assigned ids, e.g. CNAME records) cannot be
// DELETEd by the undo, and a DELETE whose prior state was not captured
// cannot be restored; such events are stored with Undoable false.
package history
