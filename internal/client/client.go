// ABOUTME: HTTP client for the employee management identity and dashboard API
// ABOUTME: Adds bearer auth, unwraps the response envelope and emits unauthorized events

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/markalston/hrdesk/internal/metrics"
)

// DefaultTimeout matches the web client's 10 second request timeout
const DefaultTimeout = 10 * time.Second

// UnauthorizedEvent describes a 401 received on an authenticated request
type UnauthorizedEvent struct {
	Op    string
	Token string
}

// Client is the API client for the employee management backend
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu          sync.RWMutex
	tokenSource func() string
	listeners   []func(UnauthorizedEvent)
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetTokenSource sets the function that yields the bearer token for
// authenticated requests. The client keeps no token state of its own.
func (c *Client) SetTokenSource(fn func() string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokenSource = fn
}

// OnUnauthorized registers a listener for 401 responses on authenticated
// requests, whichever operation triggered them
func (c *Client) OnUnauthorized(fn func(UnauthorizedEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokenSource == nil {
		return ""
	}
	return c.tokenSource()
}

func (c *Client) notifyUnauthorized(ev UnauthorizedEvent) {
	c.mu.RLock()
	listeners := append([]func(UnauthorizedEvent){}, c.listeners...)
	c.mu.RUnlock()

	metrics.UnauthorizedTotal.Inc()
	slog.Warn("Unauthorized response", "op", ev.Op)
	for _, fn := range listeners {
		fn(ev)
	}
}

// call describes one API request
type call struct {
	op        string
	method    string
	path      string
	body      any
	anonymous bool // no bearer token and no unauthorized event
}

// do performs the request and decodes the envelope's data into out
func (c *Client) do(ctx context.Context, cl call, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.ObserveRequest(cl.op, outcome, time.Since(start))
	}()

	var reader io.Reader
	if cl.body != nil {
		body, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("failed to marshal input: %w", err)
		}
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	token := ""
	if !cl.anonymous {
		token = c.token()
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = "network_error"
		return &NetworkError{Op: cl.op, Err: c.handleRequestError(ctx, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !cl.anonymous {
		c.notifyUnauthorized(UnauthorizedEvent{Op: cl.op, Token: token})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := c.handleErrorResponse(cl.op, resp)
		if IsAuthError(err) {
			outcome = "auth_error"
		} else {
			outcome = "server_error"
		}
		return err
	}

	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = "network_error"
		return &NetworkError{Op: cl.op, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if err := decodeEnvelope(data, out); err != nil {
		outcome = "server_error"
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// decodeEnvelope unwraps {data: ...}; bodies without an envelope decode as-is
func decodeEnvelope(data []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(data, out)
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled")
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse maps 4xx to AuthError and everything else to NetworkError
func (c *Client) handleErrorResponse(op string, resp *http.Response) error {
	msg := ""
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil {
		msg = env.Message
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &AuthError{Status: resp.StatusCode, Message: msg}
	}

	if msg == "" {
		return &NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("backend returned status %d", resp.StatusCode)}
	}
	return &NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("backend error: %s", msg)}
}
