// Package api is the HTTP client for the finance REST API.
//
// Every request carries the bearer token held by the injected Credentials.
// A 401 on any ordinary request expires those credentials and runs the
// unauthorized handler; calls that check a password are exempt.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:5001/api"

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// Credentials supplies the bearer token and is expired on a 401.
type Credentials interface {
	AccessToken() string
	Expire()
}

// Client talks to the finance API.
type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	creds          Credentials
	onUnauthorized func()
	mu             sync.RWMutex
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is
// wrapped to add the bearer token.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithCredentials sets the token source.
func WithCredentials(creds Credentials) Option {
	return func(c *Client) {
		c.creds = creds
	}
}

// WithUnauthorizedHandler registers fn to run after credentials are expired by a 401.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc := *c.httpClient
	hc.Transport = &bearerTransport{base: base, token: c.accessToken}
	c.httpClient = &hc

	return c, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SetCredentials replaces the token source.
func (c *Client) SetCredentials(creds Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = creds
}

// OnUnauthorized replaces the handler run after a 401.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	creds := c.creds
	c.mu.RUnlock()
	if creds == nil {
		return ""
	}
	return creds.AccessToken()
}

// expire applies the global 401 policy.
func (c *Client) expire() {
	c.mu.RLock()
	creds, handler := c.creds, c.onUnauthorized
	c.mu.RUnlock()

	if creds != nil {
		creds.Expire()
	}
	if handler != nil {
		handler()
	}
}

type noExpiryKey struct{}

// WithoutExpiry marks requests made with ctx as exempt from the 401 policy.
// A rejected token is reported to the caller and nothing else happens.
func WithoutExpiry(ctx context.Context) context.Context {
	return context.WithValue(ctx, noExpiryKey{}, true)
}

func expiryDisabled(ctx context.Context) bool {
	v, _ := ctx.Value(noExpiryKey{}).(bool)
	return v
}

type request struct {
	body   any
	out    any
	query  url.Values
	method string
	path   string
	// exempt requests report 401 to the caller without expiring the session.
	exempt bool
}

type messageBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Msg     string `json:"msg"`
}

func (m messageBody) text() string {
	for _, s := range []string{m.Message, m.Error, m.Msg} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (c *Client) do(ctx context.Context, r request) (*http.Response, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(r.path, "/")
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s %s: %w", r.method, r.path, ctxErr)
		}
		return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, r.method, r.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("API request",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Method: r.method, Path: r.path, StatusCode: resp.StatusCode}
		var msg messageBody
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.text()
		}
		if resp.StatusCode == http.StatusUnauthorized && !r.exempt && !expiryDisabled(ctx) {
			slog.Info("Session rejected by server", "method", r.method, "path", r.path)
			c.expire()
		}
		return resp, apiErr
	}

	if r.out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, r.out); err != nil {
			return resp, fmt.Errorf("failed to decode %s %s response: %w", r.method, r.path, err)
		}
	}
	return resp, nil
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
