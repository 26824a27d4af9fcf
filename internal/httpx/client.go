package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// defaultTimeout bounds a single HTTP attempt.
const defaultTimeout = 60 * time.Second

// AuthFunc decorates an outgoing request with authentication headers.
// It runs once per attempt, so token refreshes and per-request
// signatures (Mimecast) both work.
type AuthFunc func(ctx context.Context, req *http.Request) error

// Request describes one vendor API call.
type Request struct {
	// Method is the HTTP method; defaults to GET.
	Method string

	// Path is resolved against the client's base URL. An absolute URL
	// overrides the base entirely (report download links).
	Path string

	// Query holds URL query parameters.
	Query url.Values

	// Header holds extra request headers.
	Header http.Header

	// Body is marshaled to JSON when non-nil.
	Body any

	// Form is sent URL-encoded when non-nil; used by OAuth token
	// endpoints. Body and Form are mutually exclusive.
	Form url.Values
}

// Client is a retrying, rate-limited HTTP client shared by all vendor
// integrations. The zero value is not usable; use NewClient.
type Client struct {
	httpClient *http.Client
	baseURL    string
	auth       AuthFunc
	policy     RetryPolicy
	limiter    *Limiter
	userAgent  string
	sleep      func(ctx context.Context, d time.Duration) error
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAuth sets the authentication decorator.
func WithAuth(auth AuthFunc) ClientOption {
	return func(c *Client) {
		c.auth = auth
	}
}

// WithRetryPolicy overrides the retry policy.
func WithRetryPolicy(policy RetryPolicy) ClientOption {
	return func(c *Client) {
		c.policy = policy
	}
}

// WithLimiter attaches a rate limiter applied before every attempt.
func WithLimiter(l *Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithSleep overrides the backoff sleep function, for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) ClientOption {
	return func(c *Client) {
		c.sleep = sleep
	}
}

// NewClient creates a client rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		policy:     DefaultRetryPolicy(),
		userAgent:  "vendo",
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do executes the request with rate limiting, auth, and retries.
// Returns the response body and headers on 2xx; a *StatusError otherwise.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, http.Header, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var payload []byte
	contentType := ""
	switch {
	case req.Body != nil && req.Form != nil:
		return nil, nil, errors.New("request has both Body and Form")
	case req.Body != nil:
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, nil, errors.Wrap(err, "marshaling request body")
		}
		contentType = "application/json"
	case req.Form != nil:
		payload = []byte(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	target, err := c.resolve(req.Path, req.Query)
	if err != nil {
		return nil, nil, err
	}

	var lastErr error
	for attempt := 0; attempt < c.policy.MaxAttempts; attempt++ {
		if err := c.limiter.Acquire(ctx); err != nil {
			return nil, nil, err
		}

		body, header, retryable, err := c.attempt(ctx, method, target, payload, contentType, req.Header)
		if err == nil {
			return body, header, nil
		}
		lastErr = err

		if !retryable || attempt+1 >= c.policy.MaxAttempts {
			break
		}

		wait := c.policy.Backoff(attempt)
		if ra := retryAfterFromErr(err, header); ra > wait {
			wait = ra
		}
		slog.Debug("retrying request", "method", method, "url", target, "attempt", attempt+1, "wait", wait.Round(time.Millisecond))
		if err := c.sleep(ctx, wait); err != nil {
			return nil, nil, errors.Wrap(err, "waiting to retry")
		}
	}
	return nil, nil, lastErr
}

// attempt performs a single HTTP exchange.
func (c *Client) attempt(ctx context.Context, method, target string, payload []byte, contentType string, extra http.Header) (body []byte, header http.Header, retryable bool, err error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, nil, false, errors.Wrap(err, "building request")
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for k, vals := range extra {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}

	if c.auth != nil {
		if err := c.auth(ctx, httpReq); err != nil {
			return nil, nil, false, errors.Wrap(err, "authenticating request")
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Network errors are worth one more try for idempotent calls.
		return nil, nil, method == http.MethodGet, errors.Wrap(err, "sending request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.Header, false, errors.Wrap(err, "reading response")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, resp.Header, false, nil
	}

	statusErr := NewStatusError(resp.StatusCode, data)
	return nil, resp.Header, c.policy.ShouldRetry(method, resp.StatusCode), statusErr
}

// DoJSON executes the request and decodes the JSON response into out.
// A nil out discards the body.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) error {
	body, _, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(body, out), "decoding response")
}

// resolve joins path and query onto the base URL.
func (c *Client) resolve(path string, query url.Values) (string, error) {
	target := path
	if !strings.Contains(path, "://") {
		if c.baseURL == "" {
			return "", errors.Newf("relative path %q with no base URL", path)
		}
		target = c.baseURL + "/" + strings.TrimLeft(path, "/")
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", errors.Wrapf(err, "parsing URL %q", target)
	}
	if len(query) > 0 {
		merged := u.Query()
		for k, vals := range query {
			for _, v := range vals {
				merged.Add(k, v)
			}
		}
		u.RawQuery = merged.Encode()
	}
	return u.String(), nil
}

// retryAfterFromErr pulls a Retry-After hint from the failed response.
func retryAfterFromErr(err error, header http.Header) time.Duration {
	if header == nil {
		return 0
	}
	var se *StatusError
	if !errors.As(err, &se) {
		return 0
	}
	return RetryAfter(header)
}

// BearerAuth returns an AuthFunc that fetches a token from fetch on
// every attempt and sets the Authorization header. Wire it to a
// credcache lookup so refreshes happen transparently.
func BearerAuth(fetch func(ctx context.Context) (string, error)) AuthFunc {
	return func(ctx context.Context, req *http.Request) error {
		header, err := fetch(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", header)
		return nil
	}
}

// HeaderAuth returns an AuthFunc that sets a static header, for vendors
// with API-key authentication (n8n, Shopify).
func HeaderAuth(name, value string) AuthFunc {
	return func(_ context.Context, req *http.Request) error {
		req.Header.Set(name, value)
		return nil
	}
}
