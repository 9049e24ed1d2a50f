package metastats

import (
	"context"
	"fmt"
	"net/http"

	"github.com/codeGROOVE-dev/metastats/pkg/auth"
	"github.com/codeGROOVE-dev/metastats/pkg/instagram"
	"github.com/codeGROOVE-dev/metastats/pkg/transport"
)

// Profile fetches public profile counters for an Instagram account.
// username may also be an instagram.com profile URL.
//
// Session cookies are optional. They are taken from WithCookies, then the
// INSTAGRAM_* environment variables, then local browsers if
// WithBrowserCookies is set.
func Profile(ctx context.Context, username string, opts ...Option) (instagram.Result, error) {
	name := instagram.Username(username)
	if name == "" {
		return instagram.Result{}, fmt.Errorf("%w: instagram username %q", ErrInvalidInput, username)
	}
	cfg := newConfig(opts)

	sources := []auth.Source{auth.StaticSource(cfg.cookies), auth.EnvSource{}}
	if cfg.browserCookies {
		sources = append(sources, auth.NewBrowserSource(cfg.logger))
	}
	cookies, err := auth.ChainSources(ctx, instagram.Platform, sources...)
	if err != nil {
		return instagram.Result{}, fmt.Errorf("instagram cookies: %w", err)
	}

	header := instagram.Headers(cfg.pick)
	var hc *http.Client
	if len(cookies) > 0 {
		if hc, err = cookieClient(cfg.httpClient, cookies); err != nil {
			return instagram.Result{}, err
		}
		if csrf := cookies["csrftoken"]; csrf != "" {
			header.Set("X-CSRFToken", csrf)
		}
		cfg.logger.DebugContext(ctx, "using instagram session cookies", "count", len(cookies))
	}

	cfg.logger.InfoContext(ctx, "fetching instagram profile", "username", name)
	resp, err := cfg.client(hc).Get(ctx, instagram.ProfileURL(cfg.profileURL, name), header)
	if err != nil {
		return instagram.Result{}, err
	}
	res, err := instagram.Classify(resp.StatusCode, resp.Body)
	if err != nil {
		return instagram.Result{}, fmt.Errorf("instagram profile %s: %w", name, err)
	}
	return res, nil
}

// cookieClient returns a copy of base that carries cookies for Instagram.
func cookieClient(base *http.Client, cookies map[string]string) (*http.Client, error) {
	jar, err := auth.NewCookieJar(instagram.CookieDomain, cookies)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	hc := &http.Client{Timeout: transport.DefaultTimeout}
	if base != nil {
		c := *base
		hc = &c
	}
	hc.Jar = jar
	return hc, nil
}
