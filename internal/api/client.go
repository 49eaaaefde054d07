// Package api implements the HTTP transport for the TOURTRA backend: JSON and
// multipart requests with bearer authentication, a single silent token refresh
// and retry on 401, and structured error payload decoding.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TokenSource supplies the current access token. An empty string means the
// request goes out unauthenticated (login, refresh).
type TokenSource interface {
	AccessToken() string
}

// Refresher exchanges the durable refresh credential for a fresh access
// token. The transport calls it at most once per request.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Client is the REST transport shared by every resource store. It is safe for
// concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	tokens    TokenSource
	refresher Refresher
	limiter   *rate.Limiter
	log       *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRefresher installs the silent-refresh hook used on 401 responses.
func WithRefresher(r Refresher) Option {
	return func(c *Client) { c.refresher = r }
}

// WithLimiter overrides the default request rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithLogger attaches a zap logger for request tracing.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a transport rooted at baseURL. tokens may be nil for a client
// that only talks to public endpoints.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		// Bursty list refreshes are smoothed out; the backend is a small
		// shared instance.
		limiter: rate.NewLimiter(rate.Limit(20), 40),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE. out is usually nil; 204 bodies are ignored.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do issues a JSON request. On a 401 it refreshes the session once via the
// configured Refresher and retries the original request a single time; a
// failed refresh surfaces ErrSessionExpired.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	build := func() (*http.Request, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	}
	return c.send(ctx, build, out)
}

// send executes the request produced by build, handling auth headers, the
// one-shot refresh-and-retry, and response decoding. build is called again
// for the retry so the body reader starts fresh.
func (c *Client) send(ctx context.Context, build func() (*http.Request, error), out any) error {
	reqID := uuid.NewString()
	retried := false
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		req, err := build()
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if c.tokens != nil {
			if token := c.tokens.AccessToken(); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
		}
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("%s %s: read response: %w", req.Method, req.URL.Path, readErr)
		}
		c.log.Debug("api request",
			zap.String("req", reqID),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)),
			zap.Bool("retry", retried),
		)

		if resp.StatusCode == http.StatusUnauthorized && !retried && c.refresher != nil {
			if err := c.refresher.Refresh(ctx); err != nil {
				return fmt.Errorf("%w: %v", ErrSessionExpired, err)
			}
			retried = true
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return decodeError(resp.StatusCode, body)
		}
		if out == nil || len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", req.Method, req.URL.Path, err)
		}
		return nil
	}
}
