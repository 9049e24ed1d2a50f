package metastats

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/codeGROOVE-dev/metastats/pkg/auth"
	"github.com/codeGROOVE-dev/metastats/pkg/classify"
	"github.com/codeGROOVE-dev/metastats/pkg/graph"
	"github.com/codeGROOVE-dev/metastats/pkg/result"
)

// PageInfo fetches the id and name of a Page. pageID may also be a
// facebook.com page URL.
func PageInfo(ctx context.Context, pageID string, opts ...Option) (graph.Result[graph.PageInfo], error) {
	id, err := pageIDArg(pageID)
	if err != nil {
		return graph.Result[graph.PageInfo]{}, err
	}
	return fetchGraph(ctx, newConfig(opts), nil, classify.JSON[graph.PageInfo], id)
}

// PageEngagement fetches follower, fan, rating and category metrics of a Page.
func PageEngagement(ctx context.Context, pageID string, opts ...Option) (graph.Result[graph.PageEngagement], error) {
	id, err := pageIDArg(pageID)
	if err != nil {
		return graph.Result[graph.PageEngagement]{}, err
	}
	params := url.Values{graph.ParamFields: {graph.EngagementFields}}
	return fetchGraph(ctx, newConfig(opts), params, classify.JSON[graph.PageEngagement], id)
}

// Posts fetches the first page of a Page's posts with the API's default fields.
func Posts(ctx context.Context, pageID string, opts ...Option) (graph.Result[graph.PostsPage], error) {
	id, err := pageIDArg(pageID)
	if err != nil {
		return graph.Result[graph.PostsPage]{}, err
	}
	return fetchGraph(ctx, newConfig(opts), nil, classify.JSON[graph.PostsPage], id, "posts")
}

// PostsWithSummary fetches the first page of a Page's posts including like
// and comment totals.
func PostsWithSummary(ctx context.Context, pageID string, opts ...Option) (graph.Result[graph.PostsPage], error) {
	id, err := pageIDArg(pageID)
	if err != nil {
		return graph.Result[graph.PostsPage]{}, err
	}
	params := url.Values{graph.ParamFields: {graph.PostSummaryFields}}
	return fetchGraph(ctx, newConfig(opts), params, classify.JSON[graph.PostsPage], id, "posts")
}

// Reactions fetches the first page of reactions to a post.
func Reactions(ctx context.Context, postID string, opts ...Option) (graph.Result[graph.ReactionsPage], error) {
	id := strings.TrimSpace(postID)
	if id == "" {
		return graph.Result[graph.ReactionsPage]{}, fmt.Errorf("%w: empty post id", ErrInvalidInput)
	}
	return fetchGraph(ctx, newConfig(opts), nil, classify.JSON[graph.ReactionsPage], id, "reactions")
}

// AccessToken exchanges the app's client credentials for an access token.
func AccessToken(ctx context.Context, opts ...Option) (graph.Result[auth.Token], error) {
	cfg := newConfig(opts)
	version, err := auth.Lookup(auth.EnvVersion, cfg.creds.Version)
	if err != nil {
		return graph.Result[auth.Token]{}, err
	}
	version = graph.Version(version)
	cfg.warnVersion(ctx, version)
	creds, err := cfg.resolve(version)
	if err != nil {
		return graph.Result[auth.Token]{}, err
	}
	cfg.logger.InfoContext(ctx, "exchanging client credentials", "client_id", creds.ClientID, "grant_type", creds.GrantType)
	return auth.Exchange(ctx, cfg.client(nil).HTTPClient(), creds)
}

func pageIDArg(s string) (string, error) {
	id := graph.PageID(s)
	if id == "" {
		return "", fmt.Errorf("%w: page id %q", ErrInvalidInput, s)
	}
	return id, nil
}

// fetchGraph performs one authenticated Graph GET and classifies the body.
func fetchGraph[S any](
	ctx context.Context, cfg *config, params url.Values, parse classify.Parser[S], segments ...string,
) (graph.Result[S], error) {
	version, err := auth.Lookup(auth.EnvVersion, cfg.creds.Version)
	if err != nil {
		return graph.Result[S]{}, err
	}
	version = graph.Version(version)
	cfg.warnVersion(ctx, version)

	token, apiErr, err := cfg.token(ctx, version)
	if err != nil {
		return graph.Result[S]{}, err
	}
	if apiErr != nil {
		return result.Err[S](apiErr), nil
	}

	var secret string
	if cfg.secretProof {
		if secret, err = auth.Lookup(auth.EnvClientSecret, cfg.creds.ClientSecret); err != nil {
			return graph.Result[S]{}, err
		}
	}

	u := graph.URL(cfg.graphURL, version, graph.AuthParams(params, token, secret), segments...)
	cfg.logger.InfoContext(ctx, "fetching graph object", "path", strings.Join(segments, "/"), "version", version)

	resp, err := cfg.client(nil).Get(ctx, u, nil)
	if err != nil {
		return graph.Result[S]{}, err
	}
	res, err := graph.Classify(resp.StatusCode, resp.Body, parse)
	if err != nil {
		return graph.Result[S]{}, fmt.Errorf("%s: %w", strings.Join(segments, "/"), err)
	}
	return res, nil
}

// token returns the access token for a Graph call. When none is configured
// the app credentials are exchanged for one; a Graph error from that
// exchange is returned as apiErr.
func (c *config) token(ctx context.Context, version string) (token string, apiErr *graph.Error, err error) {
	if c.accessToken != "" {
		return c.accessToken, nil, nil
	}
	if t := os.Getenv(auth.EnvAccessToken); t != "" {
		return t, nil, nil
	}

	creds, err := c.resolve(version)
	if err != nil {
		return "", nil, err
	}
	c.logger.DebugContext(ctx, "no access token configured, exchanging client credentials", "client_id", creds.ClientID)

	res, err := auth.Exchange(ctx, c.client(nil).HTTPClient(), creds)
	if err != nil {
		return "", nil, fmt.Errorf("access token: %w", err)
	}
	if e, failed := res.Failure(); failed {
		return "", e, nil
	}
	return res.MustSuccess().AccessToken, nil, nil
}

// resolve fills app credentials for version. The default token endpoint
// lives on the configured Graph host.
func (c *config) resolve(version string) (auth.Credentials, error) {
	creds := c.creds
	creds.Version = version
	if creds.TokenURL == "" && os.Getenv(auth.EnvTokenURL) == "" {
		creds.TokenURL = graph.URL(c.graphURL, version, nil, "oauth", "access_token")
	}
	return auth.Resolve(creds)
}

func (c *config) warnVersion(ctx context.Context, version string) {
	if !graph.IsVersion(version) {
		c.logger.WarnContext(ctx, "unrecognized graph API version", "version", version)
	}
}
