package auth

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"slices"
)

// sessionCookie is one cookie of a logged-in session and the env var that can supply it.
type sessionCookie struct {
	name string
	env  string
}

// session describes where a platform keeps its login state.
type session struct {
	domain  string
	cookies []sessionCookie
}

var sessions = map[string]session{
	"instagram": {
		domain: "instagram.com",
		cookies: []sessionCookie{
			{name: "sessionid", env: "INSTAGRAM_SESSIONID"},
			{name: "csrftoken", env: "INSTAGRAM_CSRFTOKEN"},
			{name: "ds_user_id", env: "INSTAGRAM_DS_USER_ID"},
		},
	},
}

// cookieNames lists the session cookie names for platform, in a fixed order.
func cookieNames(platform string) []string {
	s := sessions[platform]
	names := make([]string, 0, len(s.cookies))
	for _, c := range s.cookies {
		names = append(names, c.name)
	}
	return names
}

// NewCookieJar returns a jar that sends the non-empty cookies to domain and
// all of its subdomains.
func NewCookieJar(domain string, cookies map[string]string) (*cookiejar.Jar, error) {
	if domain == "" {
		return nil, errors.New("cookie jar: empty domain")
	}
	u, err := url.Parse("https://" + domain)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	set := make([]*http.Cookie, 0, len(cookies))
	for _, name := range slices.Sorted(maps.Keys(cookies)) {
		if v := cookies[name]; v != "" {
			set = append(set, &http.Cookie{Name: name, Value: v, Domain: "." + domain, Path: "/"})
		}
	}
	jar.SetCookies(u, set)
	return jar, nil
}

// Source represents a source of session cookies.
type Source interface {
	// Cookies returns cookies for the given platform, or nil if unavailable.
	Cookies(ctx context.Context, platform string) (map[string]string, error)
}

// ChainSources asks each non-nil source in turn and returns the first
// non-empty set. The first error stops the chain.
func ChainSources(ctx context.Context, platform string, sources ...Source) (map[string]string, error) {
	for _, src := range slices.DeleteFunc(slices.Clone(sources), func(s Source) bool { return s == nil }) {
		switch cookies, err := src.Cookies(ctx, platform); {
		case err != nil:
			return nil, err
		case len(cookies) > 0:
			return cookies, nil
		}
	}
	return nil, nil //nolint:nilnil // no source had cookies, but this is not an error
}

// EnvSource reads session cookies from INSTAGRAM_SESSIONID, INSTAGRAM_CSRFTOKEN
// and INSTAGRAM_DS_USER_ID.
type EnvSource struct{}

// Cookies returns the session cookies whose env vars are set.
func (EnvSource) Cookies(_ context.Context, platform string) (map[string]string, error) {
	var cookies map[string]string
	for _, c := range sessions[platform].cookies {
		v := os.Getenv(c.env)
		if v == "" {
			continue
		}
		if cookies == nil {
			cookies = make(map[string]string, len(sessions[platform].cookies))
		}
		cookies[c.name] = v
	}
	return cookies, nil
}

// StaticSource provides cookies from a fixed map, regardless of platform.
type StaticSource map[string]string

// Cookies returns a copy of the static cookies.
func (s StaticSource) Cookies(context.Context, string) (map[string]string, error) {
	if len(s) == 0 {
		return nil, nil //nolint:nilnil // empty static source is not an error
	}
	return maps.Clone(map[string]string(s)), nil
}
