// Package transport performs the single GET behind every metastats call.
//
// Unlike a typical fetch helper it returns non-2xx responses as data: the
// Graph API reports errors as JSON bodies with 4xx statuses, and those bodies
// must reach the classifier. Only failures to obtain a response at all
// (DNS, connect, TLS, timeout, cancellation) become errors.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// UserAgent is sent when the caller supplies none.
const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:146.0) Gecko/20100101 Firefox/146.0"

// DefaultTimeout bounds a single attempt when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// MaxBodySize caps how much of a response body is read.
const MaxBodySize = 32 << 20

// ErrTransport matches any *Error via errors.Is.
var ErrTransport = errors.New("transport error")

// Error reports a request that produced no response.
type Error struct {
	Err error
	URL string
}

func (e *Error) Error() string {
	// *url.Error already names the method and the (redacted) URL.
	var ue *url.Error
	if errors.As(e.Err, &ue) {
		return e.Err.Error()
	}
	return fmt.Sprintf("GET %s: %v", Redact(e.URL), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is ErrTransport.
func (*Error) Is(target error) bool { return target == ErrTransport }

// Response is a completed HTTP exchange.
type Response struct {
	URL        string
	Body       []byte
	StatusCode int
}

// Client issues GET requests.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	attempts   uint
}

// Option configures a Client.
type Option func(*config)

type config struct {
	httpClient *http.Client
	logger     *slog.Logger
	attempts   uint
}

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.httpClient = hc }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithRetries allows up to n additional attempts after a network failure,
// a 429, or a 5xx response. The default is no retries.
func WithRetries(n uint) Option {
	return func(c *config) { c.attempts = n + 1 }
}

// New creates a Client.
func New(opts ...Option) *Client {
	cfg := &config{logger: slog.Default(), attempts: 1}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if cfg.attempts == 0 {
		cfg.attempts = 1
	}
	return &Client{
		httpClient: cfg.httpClient,
		logger:     cfg.logger,
		attempts:   cfg.attempts,
	}
}

// HTTPClient returns the underlying http.Client.
func (c *Client) HTTPClient() *http.Client { return c.httpClient }

// Get fetches rawURL verbatim with the given headers.
func (c *Client) Get(ctx context.Context, rawURL string, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, &Error{URL: rawURL, Err: err}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}

	if c.attempts <= 1 {
		resp, err := c.do(req)
		if err != nil {
			return nil, &Error{URL: rawURL, Err: err}
		}
		return resp, nil
	}
	return c.doWithRetry(ctx, req)
}

var errRetryableStatus = errors.New("retryable status")

func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*Response, error) {
	// last holds the most recent response when the final attempt ended on a
	// retryable status; that body still goes to the caller.
	var last *Response
	resp, err := retry.DoWithData(
		func() (*Response, error) {
			r, err := c.do(req)
			if err != nil {
				last = nil
				return nil, err
			}
			if retryableStatus(r.StatusCode) {
				last = r
				return nil, errRetryableStatus
			}
			return r, nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(200*time.Millisecond),
		retry.MaxJitter(100*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			c.logger.DebugContext(ctx, "retrying HTTP request", "attempt", n+1, "url", Redact(req.URL.String()), "error", err)
		}),
	)
	if err == nil {
		return resp, nil
	}
	if last != nil {
		return last, nil
	}
	return nil, &Error{URL: req.URL.String(), Err: err}
}

func (c *Client) do(req *http.Request) (*Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = Redact(ue.URL)
		}
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	c.logger.DebugContext(req.Context(), "HTTP response",
		"url", Redact(req.URL.String()),
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start))

	return &Response{URL: req.URL.String(), StatusCode: resp.StatusCode, Body: body}, nil
}

// retryableStatus returns true for statuses worth another attempt.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false // 4xx errors (except 429) are permanent
	}
}

var secretParams = []string{"access_token", "appsecret_proof", "client_secret"}

// Redact masks credentials in a URL's query string for logging.
func Redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<unparseable url>"
	}
	q := u.Query()
	changed := false
	for _, k := range secretParams {
		if q.Has(k) {
			q.Set(k, "REDACTED")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
