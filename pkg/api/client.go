// Package api is the HTTP client for the task store and its identity
// endpoints. Every authenticated request carries the session's bearer
// token; the client never refreshes or validates it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// RequestIDHeader correlates client log lines with server logs.
const RequestIDHeader = "X-Request-ID"

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Code, http.StatusText(e.Code), e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
}

// Client talks to one task store deployment.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	anon    *http.Client
	logger  *slog.Logger
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	timeout time.Duration
	base    *http.Client
	logger  *slog.Logger
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithHTTPClient sets the underlying transport client, e.g. an
// httptest server's client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.base = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewClient creates a client for the store at baseURL. token may be nil
// for the unauthenticated login and register calls; authenticated calls
// then go out without credentials and fail at the server.
func NewClient(baseURL string, token *oauth2.Token, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}

	o := options{base: http.DefaultClient, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	anon := &http.Client{Transport: o.base.Transport, Timeout: o.timeout}
	authed := anon
	if token != nil {
		// oauth2.NewClient wraps the base client's transport and sets
		// "Authorization: Bearer <token>" on every request.
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, anon)
		authed = oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
		authed.Timeout = o.timeout
	}

	return &Client{baseURL: u, http: authed, anon: anon, logger: o.logger}, nil
}

// do sends a JSON request and decodes a JSON response into out, which may
// be nil.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("failed to build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts {"message": "..."} from an error body, falling
// back to the raw text.
func errorMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(b) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(b, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(b))
}
