// Package metastats reads public statistics from the Facebook Graph API and
// the Instagram web profile endpoint.
//
// Every call performs one GET and returns a Result carrying either the typed
// payload or the API's own error. The returned error is reserved for failures
// of the call itself: missing configuration, transport failures, and bodies
// that match neither shape.
//
// Basic usage:
//
//	res, err := metastats.PageInfo(ctx, "20531316728")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if page, ok := res.Success(); ok {
//	    fmt.Println(page.Name)
//	}
//
// Credentials come from META_CLIENT_ID, META_CLIENT_SECRET and META_VERSION
// unless overridden per call:
//
//	res, err := metastats.PostsWithSummary(ctx, "20531316728",
//	    metastats.WithAccessToken(token), metastats.WithVersion("19.0"))
package metastats

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/codeGROOVE-dev/metastats/pkg/auth"
	"github.com/codeGROOVE-dev/metastats/pkg/classify"
	"github.com/codeGROOVE-dev/metastats/pkg/graph"
	"github.com/codeGROOVE-dev/metastats/pkg/instagram"
	"github.com/codeGROOVE-dev/metastats/pkg/transport"
)

// Re-export common errors.
var (
	ErrConfigMissing = auth.ErrConfigMissing
	ErrTransport     = transport.ErrTransport
	ErrUnparseable   = classify.ErrUnparseable
	ErrUserNotFound  = instagram.ErrUserNotFound
)

var (
	// ErrInvalidInput is returned for an empty page id, post id, or username.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoNextPage is returned by NextPosts when the paging has no next link.
	ErrNoNextPage = errors.New("no next page")
)

type (
	// GraphError re-exports graph.Error for convenience.
	GraphError = graph.Error
	// ProfileError re-exports instagram.ProfileError for convenience.
	ProfileError = instagram.ProfileError
	// ConfigMissingError re-exports auth.ConfigMissingError for convenience.
	ConfigMissingError = auth.ConfigMissingError
	// UnparseableError re-exports classify.UnparseableError for convenience.
	UnparseableError = classify.UnparseableError
	// TransportError re-exports transport.Error for convenience.
	TransportError = transport.Error
)

// Option configures a single call.
type Option func(*config)

//nolint:govet // fieldalignment: intentional layout for readability
type config struct {
	creds          auth.Credentials
	accessToken    string
	graphURL       string
	profileURL     string
	httpClient     *http.Client
	logger         *slog.Logger
	cookies        map[string]string
	retries        uint
	browserCookies bool
	secretProof    bool
	pick           instagram.Picker
}

// WithAccessToken uses token instead of exchanging app credentials.
func WithAccessToken(token string) Option {
	return func(c *config) { c.accessToken = token }
}

// WithClientID overrides META_CLIENT_ID.
func WithClientID(id string) Option {
	return func(c *config) { c.creds.ClientID = id }
}

// WithClientSecret overrides META_CLIENT_SECRET.
func WithClientSecret(secret string) Option {
	return func(c *config) { c.creds.ClientSecret = secret }
}

// WithVersion overrides META_VERSION. A missing "v" prefix is added.
func WithVersion(version string) Option {
	return func(c *config) { c.creds.Version = version }
}

// WithGrantType overrides META_GRANT_TYPE for the token exchange.
func WithGrantType(grantType string) Option {
	return func(c *config) { c.creds.GrantType = grantType }
}

// WithTokenURL overrides META_TOKEN_URL for the token exchange.
func WithTokenURL(tokenURL string) Option {
	return func(c *config) { c.creds.TokenURL = tokenURL }
}

// WithGraphURL sets the Graph API host, e.g. for tests.
func WithGraphURL(base string) Option {
	return func(c *config) { c.graphURL = base }
}

// WithProfileURL sets the Instagram API host, e.g. for tests.
func WithProfileURL(base string) Option {
	return func(c *config) { c.profileURL = base }
}

// WithHTTPClient sets the http.Client used for the call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.httpClient = hc }
}

// WithRetries allows n extra attempts on network failures, 429 and 5xx.
// Calls are not retried by default.
func WithRetries(n uint) Option {
	return func(c *config) { c.retries = n }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithCookies sets Instagram session cookies, e.g. {"sessionid": "..."}.
func WithCookies(cookies map[string]string) Option {
	return func(c *config) { c.cookies = cookies }
}

// WithBrowserCookies reads Instagram session cookies from local browsers
// when none are set explicitly or in the environment.
func WithBrowserCookies() Option {
	return func(c *config) { c.browserCookies = true }
}

// WithAppSecretProof signs Graph requests with appsecret_proof.
// It requires a client secret.
func WithAppSecretProof() Option {
	return func(c *config) { c.secretProof = true }
}

func newConfig(opts []Option) *config {
	cfg := &config{
		graphURL:   graph.DefaultURL,
		profileURL: instagram.DefaultURL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *config) client(hc *http.Client) *transport.Client {
	if hc == nil {
		hc = c.httpClient
	}
	return transport.New(
		transport.WithHTTPClient(hc),
		transport.WithLogger(c.logger),
		transport.WithRetries(c.retries),
	)
}
