package metastats

import (
	"context"
	"fmt"
	"strings"

	"github.com/codeGROOVE-dev/metastats/pkg/graph"
	"github.com/codeGROOVE-dev/metastats/pkg/transport"
)

// FetchNext GETs a paging.next URL verbatim. The URL already carries the
// access token and cursors, so nothing is added to it. Classifying the body
// is up to the caller; see ParsePosts.
func FetchNext(ctx context.Context, nextURL string, opts ...Option) (*transport.Response, error) {
	nextURL = strings.TrimSpace(nextURL)
	if nextURL == "" {
		return nil, fmt.Errorf("%w: empty next url", ErrInvalidInput)
	}
	cfg := newConfig(opts)
	cfg.logger.InfoContext(ctx, "fetching next page", "url", transport.Redact(nextURL))
	return cfg.client(nil).Get(ctx, nextURL, nil)
}

// ParsePosts classifies a posts page body, such as one returned by FetchNext.
func ParsePosts(status int, body []byte) (graph.Result[graph.PostsPage], error) {
	return graph.ClassifyAs[graph.PostsPage](status, body)
}

// Next fetches and classifies the page after p as S. It returns
// ErrNoNextPage when p has no next link.
func Next[S any](ctx context.Context, p graph.Paging, opts ...Option) (graph.Result[S], error) {
	if !p.HasNext() {
		return graph.Result[S]{}, ErrNoNextPage
	}
	resp, err := FetchNext(ctx, p.Next, opts...)
	if err != nil {
		return graph.Result[S]{}, err
	}
	return graph.ClassifyAs[S](resp.StatusCode, resp.Body)
}

// NextPosts fetches the posts page after p.
func NextPosts(ctx context.Context, p graph.Paging, opts ...Option) (graph.Result[graph.PostsPage], error) {
	return Next[graph.PostsPage](ctx, p, opts...)
}
