package mreg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client talks to the mreg API. All mutations go through it so the request
// journal sees every change the CLI makes.
type Client struct {
	baseURL string
	domain  string
	http    *http.Client
	log     *zap.Logger
	journal Journal
}

// NewClient creates a new mreg API client based on the configuration.
func NewClient(cfg Config, log *zap.Logger) *Client {
	// Ensure timeout defaults if not set
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Create custom transport with strict timeouts
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration, // Connection setup timeout
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration, // TLS Handshake timeout
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration, // Wait for first response byte timeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		domain:  cfg.Domain,
		http:    &http.Client{Transport: transport},
		log:     log,
	}
}

// SetJournal attaches a request journal. Passing nil detaches it.
func (c *Client) SetJournal(j Journal) {
	c.journal = j
}

// AbsoluteURL returns the full URL for an API path. The plan executor uses it
// to write exact endpoints into the import transcript.
func (c *Client) AbsoluteURL(path string) string {
	return c.baseURL + path
}

// QualifyName converts a short host name to its long form using the
// configured domain. A trailing dot marks the name as already fully
// qualified and is stripped.
func (c *Client) QualifyName(name string) string {
	name = strings.ToLower(name)
	if strings.HasSuffix(name, ".") {
		return strings.TrimSuffix(name, ".")
	}
	if c.domain != "" && !strings.HasSuffix(name, c.domain) {
		return name + "." + c.domain
	}
	return name
}

// do performs a single request and returns the response body. Responses with
// status >= 400 come back as *APIError.
func (c *Client) do(ctx context.Context, method, url string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s payload: %w", method, url, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading response: %w", method, url, err)
	}

	if resp.StatusCode >= 400 {
		c.log.Warn("api request failed",
			zap.String("method", method),
			zap.String("url", url),
			zap.Int("status", resp.StatusCode))
		return nil, &APIError{Method: method, URL: url, StatusCode: resp.StatusCode, Body: data}
	}

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode))

	return data, nil
}

// get fetches path and decodes the JSON response into out (skipped when out
// is nil).
func (c *Client) get(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, c.AbsoluteURL(path), nil)
	if err != nil {
		return err
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("GET %s: decoding response: %w", path, err)
		}
	}
	return nil
}

// mutate performs a state-changing request and records it in the journal on
// success. undoPath names the item a POST created, so the journal can derive
// the reversing DELETE; pass "" when the created resource has no known path.
func (c *Client) mutate(ctx context.Context, method, path string, payload any, undoPath string) error {
	url := c.AbsoluteURL(path)

	// Capture the current state before changing it, so an undo can restore
	// it. Best effort: a missing resource just leaves Previous empty.
	var previous []byte
	if c.journal != nil && (method == http.MethodPatch || method == http.MethodDelete) {
		if data, err := c.do(ctx, http.MethodGet, url, nil); err == nil {
			previous = data
		}
	}

	var raw []byte
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding %s %s payload: %w", method, path, err)
		}
	}

	if _, err := c.do(ctx, method, url, payload); err != nil {
		return err
	}

	if c.journal != nil {
		undoURL := ""
		if undoPath != "" {
			undoURL = c.AbsoluteURL(undoPath)
		}
		c.journal.RecordRequest(JournalEntry{
			Method:   method,
			URL:      url,
			Body:     raw,
			Previous: previous,
			UndoURL:  undoURL,
		})
	}
	return nil
}

// Replay re-issues a journaled request verbatim. It never journals itself,
// so redoing history does not grow history.
func (c *Client) Replay(ctx context.Context, method, url string, body []byte) error {
	var payload any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return fmt.Errorf("decoding journaled %s %s payload: %w", method, url, err)
		}
	}
	_, err := c.do(ctx, method, url, payload)
	return err
}
