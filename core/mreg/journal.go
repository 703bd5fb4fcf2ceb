package mreg

// JournalEntry is one mutating request, recorded after it succeeded.
type JournalEntry struct {
	// Method is the HTTP verb (POST, PATCH, DELETE).
	Method string
	// URL is the full request URL.
	URL string
	// Body is the JSON payload that was sent, nil for DELETE.
	Body []byte
	// Previous is the resource state fetched just before a PATCH or DELETE,
	// nil when it could not be captured.
	Previous []byte
	// UndoURL is the URL the reversing request targets: for a POST the
	// created item's URL (which the undo DELETEs), for a DELETE the
	// collection URL (which the undo POSTs Previous back to). Empty for
	// PATCH, whose reversal patches URL itself, and for creates whose item
	// path is not known (e.g. server-assigned ids); the latter makes the
	// surrounding event non-undoable.
	UndoURL string
}

// Journal receives every mutating request the client performs. The history
// feature implements it; a nil journal disables recording.
type Journal interface {
	RecordRequest(e JournalEntry)
}
