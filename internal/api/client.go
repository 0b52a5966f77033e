// Package api is the HTTP client for the WhyGO REST backend.
//
// Authenticated calls take their bearer token from the session carried in the
// request context. A 401 on such a call invokes the client's OnUnauthorized
// hook once per response and returns an error matching
// errors.ErrUnauthenticated, so callers can route back to login without
// inspecting status codes.
package api

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

	"github.com/google/uuid"

	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/logging"
	"github.com/kartel/whygo/internal/session"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Logger  *logging.Logger

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client

	// OnUnauthorized runs when an authenticated call gets a 401. It receives
	// the session the request was made with.
	OnUnauthorized func(*session.Session)
}

// Client talks to the WhyGO API. It is safe for concurrent use.
type Client struct {
	baseURL        string
	http           *http.Client
	logger         *logging.Logger
	onUnauthorized func(*session.Session)
}

// New creates a client from opts.
func New(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Client{
		baseURL:        baseURL,
		http:           httpClient,
		logger:         logger,
		onUnauthorized: opts.OnUnauthorized,
	}
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs an authenticated GET and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

// post performs an authenticated POST. body and out may be nil.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, true)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, auth bool) error {
	var sess *session.Session
	if auth {
		s, ok := session.FromContext(ctx)
		if !ok || !s.Valid() {
			return errors.ErrUnauthenticated
		}
		sess = s
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if sess != nil {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	log := c.logger.WithRequest(requestID)
	if sess != nil {
		log = log.WithPerson(sess.PersonID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", "method", method, "path", path, "error", err)
		if errors.Is(ctx.Err(), context.Canceled) {
			return errors.Join(errors.ErrCanceled, err)
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return errors.NewTimeoutError(method+" "+path, c.http.Timeout).WithCause(err)
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	log.Debug("request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newError(resp.StatusCode, payload)
		if auth && resp.StatusCode == http.StatusUnauthorized {
			log.Warn("token rejected", "path", path)
			if c.onUnauthorized != nil {
				c.onUnauthorized(sess)
			}
			return errors.Join(errors.ErrUnauthenticated, apiErr)
		}
		log.Warn("request returned error", "method", method, "path", path, "status", resp.StatusCode, "detail", apiErr.Message)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
