package mreg

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrHostNotFound is returned when a host lookup matches nothing.
var ErrHostNotFound = errors.New("host not found")

// APIError describes a non-2xx response from the mreg API.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

// Error renders the failure the way operators expect to read it: the verb,
// the full URL, the status, and the response body pretty-printed when it is
// JSON.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %q: %d: %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))

	if len(e.Body) > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, e.Body, "", "  "); err == nil {
			msg += "\n" + buf.String()
		}
	}
	return msg
}

// IsNotFound reports whether err is an API response with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
