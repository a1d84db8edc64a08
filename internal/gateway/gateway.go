// Package gateway is the single place outbound requests pick up the bearer
// token and the single place authorization failures are handled. Call sites
// never inspect 401/403 themselves; by the time an error reaches them the
// session has already been torn down and the user pointed at login.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/user/eventify/internal/types"
)

// TokenSource supplies the current bearer token. It is consulted on every
// request so a token refreshed mid-session is honored on the next call.
type TokenSource func() string

// LogoutFunc clears the local session. It must be idempotent: concurrent
// in-flight requests may each observe an auth failure.
type LogoutFunc func(ctx context.Context) error

// NavigateFunc sends the user to the login entry point.
type NavigateFunc func()

// StatusError is returned for any non-2xx response, carrying the HTTP
// status and the server-provided message when one was present.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// AuthFailure reports whether the status means the credential was rejected
// or insufficient.
func (e *StatusError) AuthFailure() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// Client decorates an http.Client with token attachment, auth-failure
// interception, and transient retry on idempotent reads.
type Client struct {
	baseURL  string
	http     *http.Client
	token    TokenSource
	logout   LogoutFunc
	navigate NavigateFunc
	retry    *RetryPolicy
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTokenSource makes the client attach Authorization: Bearer headers,
// reading the token fresh at call time.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// WithAuthFailureHandler installs the logout and navigate hooks run when a
// response comes back 401 or 403.
func WithAuthFailureHandler(logout LogoutFunc, navigate NavigateFunc) Option {
	return func(c *Client) {
		c.logout = logout
		c.navigate = navigate
	}
}

// WithRetryPolicy overrides the transient-read retry policy.
func WithRetryPolicy(p *RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// New creates a gateway client for the given API base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		retry:   DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET and decodes the response into out. Transport failures
// are retried per the policy since GETs are idempotent.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

// Post issues a POST. Writes are never auto-retried.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, false)
}

// Put issues a PUT.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out, false)
}

// Patch issues a PATCH.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out, false)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, false)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, retryable bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
	}

	var resp *http.Response
	for attempt := 1; ; attempt++ {
		var err error
		resp, err = c.send(ctx, method, path, payload)
		if err == nil {
			break
		}
		if !retryable || !c.retry.ShouldRetry(err, attempt) || attempt >= c.retry.MaxAttempts {
			return fmt.Errorf("sending request: %w", err)
		}
		slog.Debug("retrying request", "method", method, "path", path, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retry.NextDelay(attempt)):
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{Status: resp.StatusCode, Message: serverMessage(respBody)}
		if serr.AuthFailure() {
			c.handleAuthFailure(ctx)
		}
		return serr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", string(types.NewRequestID()))
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return c.http.Do(req)
}

// handleAuthFailure runs the logout-navigate sequence for a rejected
// credential. A logout error must not stop the navigation or suppress the
// original error, so it is logged and dropped.
func (c *Client) handleAuthFailure(ctx context.Context) {
	if c.logout != nil {
		if err := c.logout(ctx); err != nil {
			slog.Warn("logout after auth failure", "error", err)
		}
	}
	if c.navigate != nil {
		c.navigate()
	}
}

// serverMessage extracts the {message} field from an error body, if any.
func serverMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Message
}
