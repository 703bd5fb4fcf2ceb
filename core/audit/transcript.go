package audit

import (
	"fmt"
	"io"
	"os"
)

// Transcript is the per-run audit log of a subnet import. It records what
// was read, what was rejected and every API request the executor attempted,
// in the fixed format operators and downstream tooling parse.
type Transcript struct {
	w    io.WriteCloser
	path string
	err  error
}

// Open creates (or truncates) the transcript file at path.
func Open(path string) (*Transcript, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}
	return &Transcript{w: f, path: path}, nil
}

// NewWriter wraps an arbitrary writer as a Transcript. Used by tests.
func NewWriter(w io.WriteCloser) *Transcript {
	return &Transcript{w: w}
}

// Path returns the transcript file path, empty when backed by a plain writer.
func (t *Transcript) Path() string {
	return t.path
}

func (t *Transcript) line(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format+"\n", args...)
}

// BeginRead opens the read-phase section for the given source file.
func (t *Transcript) BeginRead(source string) {
	t.line("------ READ FROM %s START ------", source)
}

// EndRead closes the read-phase section.
func (t *Transcript) EndRead(source string) {
	t.line("------ READ FROM %s END ------", source)
}

// Diagnostic records one per-line parse diagnostic.
func (t *Transcript) Diagnostic(lineNumber int, message string) {
	t.line("%d: %s", lineNumber, message)
}

// Blocker records one reason the safety guard rejected the plan. The reason
// carries its own WARNING/ERROR prefix.
func (t *Transcript) Blocker(reason string) {
	t.line("%s", reason)
}

// BeginRequests opens the apply-phase section.
func (t *Transcript) BeginRequests() {
	t.line("------ API REQUESTS START ------")
}

// EndRequests closes the apply-phase section.
func (t *Transcript) EndRequests() {
	t.line("------ API REQUESTS END ------")
}

// Delete records an attempted subnet deletion.
func (t *Transcript) Delete(url string) {
	t.line("DELETE %s", url)
}

// Post records an attempted subnet creation.
func (t *Transcript) Post(url, ipRange string) {
	t.line("POST %s - %s", url, ipRange)
}

// Patch records an attempted subnet update.
func (t *Transcript) Patch(url string) {
	t.line("PATCH %s", url)
}

// Close flushes and closes the transcript, returning the first write error
// encountered during the run.
func (t *Transcript) Close() error {
	closeErr := t.w.Close()
	if t.err != nil {
		return fmt.Errorf("writing transcript: %w", t.err)
	}
	return closeErr
}
