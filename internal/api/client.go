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

	"github.com/prepdeck/prepdeck/internal/auth"
)

// DefaultTimeout bounds a single gateway call.
const DefaultTimeout = 30 * time.Second

// Client is the single chokepoint between the controllers and the remote
// service. It attaches the bearer credential, classifies failures into
// the gateway error taxonomy, and raises the session-invalid signal on
// authentication rejections. No other component reads or sends the token.
type Client struct {
	baseURL      string
	http         *http.Client
	session      *auth.Session
	interceptors []Interceptor
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithInterceptor registers an interceptor. Multiple interceptors run in
// registration order.
func WithInterceptor(i Interceptor) Option {
	return func(c *Client) { c.interceptors = append(c.interceptors, i) }
}

// NewClient creates a gateway client for the service at baseURL. The
// session is injected, never read ambiently.
func NewClient(baseURL string, session *auth.Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call describes one outbound request.
type call struct {
	method    string
	path      string
	body      any
	needsAuth bool

	// keepSession suppresses the forced-logout path for 401 responses.
	// The change-password endpoint reports a wrong current password as
	// 401, which is a business rejection, not a credential failure.
	keepSession bool
}

// do issues the call and decodes a 2xx response body into out (skipped
// when out is nil).
func (c *Client) do(ctx context.Context, cl call, out any) error {
	if cl.needsAuth {
		if _, ok := c.session.Token(); !ok {
			return ErrUnauthenticated
		}
	}

	var reqBody io.Reader
	if cl.body != nil {
		buf, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.needsAuth {
		// Re-read at send time; the check above only short-circuits the
		// obvious case before any work is done.
		token, ok := c.session.Token()
		if !ok {
			return ErrUnauthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	info := RequestInfo{
		ID:            uuid.NewString(),
		Method:        cl.method,
		Path:          cl.path,
		Authenticated: cl.needsAuth,
	}
	for _, ic := range c.interceptors {
		ic.BeforeRequest(info)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		outErr := &UnreachableError{Err: err}
		c.afterResponse(ResponseInfo{Request: info, Err: outErr, Latency: time.Since(start)})
		return outErr
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		outErr := &UnreachableError{Err: err}
		c.afterResponse(ResponseInfo{Request: info, Status: resp.StatusCode, Err: outErr, Latency: time.Since(start)})
		return outErr
	}

	outErr := c.classify(resp.StatusCode, data, cl)
	c.afterResponse(ResponseInfo{Request: info, Status: resp.StatusCode, Err: outErr, Latency: time.Since(start)})
	if outErr != nil {
		return outErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// classify maps a response status to the gateway error taxonomy.
func (c *Client) classify(status int, body []byte, cl call) error {
	if status >= 200 && status < 300 {
		return nil
	}

	authRejected := status == http.StatusUnauthorized || status == http.StatusUnprocessableEntity
	if authRejected && !cl.keepSession {
		// Raised at most once per occurrence: Invalidate is idempotent.
		c.session.Invalidate()
		return ErrUnauthenticated
	}

	return &RemoteError{Status: status, Message: remoteMessage(body)}
}

// remoteMessage extracts the server-supplied rejection text, which the
// service sends under either "message" or "error".
func remoteMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func (c *Client) afterResponse(info ResponseInfo) {
	for _, ic := range c.interceptors {
		ic.AfterResponse(info)
	}
}
