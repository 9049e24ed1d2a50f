package graph

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
)

// Query parameter names understood by the Graph API.
const (
	ParamAccessToken = "access_token"
	ParamSecretProof = "appsecret_proof"
	ParamFields      = "fields"
)

// URL joins base, version and path segments into a request URL.
// Segments are path-escaped; params, if any, become the query string.
func URL(base, version string, params url.Values, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteByte('/')
	b.WriteString(url.PathEscape(Version(version)))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	if len(params) > 0 {
		b.WriteByte('?')
		b.WriteString(params.Encode())
	}
	return b.String()
}

// TokenURL is the default client-credentials endpoint for version.
func TokenURL(version string) string {
	return URL(DefaultURL, version, nil, "oauth", "access_token")
}

// SecretProof returns the appsecret_proof for an access token.
// https://developers.facebook.com/docs/graph-api/security/#appsecret_proof
func SecretProof(accessToken, clientSecret string) string {
	mac := hmac.New(sha256.New, []byte(clientSecret))
	_, _ = mac.Write([]byte(accessToken)) //nolint:errcheck // hash writes never fail
	return hex.EncodeToString(mac.Sum(nil))
}

// AuthParams returns params with the access token set and, when
// clientSecret is non-empty, the matching appsecret_proof.
func AuthParams(params url.Values, accessToken, clientSecret string) url.Values {
	if params == nil {
		params = url.Values{}
	}
	if accessToken == "" {
		return params
	}
	params.Set(ParamAccessToken, accessToken)
	if clientSecret != "" {
		params.Set(ParamSecretProof, SecretProof(accessToken, clientSecret))
	}
	return params
}

var (
	pagePattern  = regexp.MustCompile(`(?i)facebook\.com/(?:people/[^/]+/)?([a-zA-Z0-9.\-]+)`)
	pageIDQuery  = regexp.MustCompile(`[?&]id=(\d+)`)
	systemPaths  = map[string]bool{"profile.php": true, "pages": true, "pg": true, "watch": true, "groups": true}
	bareIDFormat = regexp.MustCompile(`^[a-zA-Z0-9.\-]+$`)
)

// PageID extracts a page id or vanity name from a Facebook URL.
// Input that is not a URL is returned unchanged when it looks like an id.
// It returns "" when nothing usable is found.
func PageID(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(strings.ToLower(s), "facebook.com") {
		if bareIDFormat.MatchString(s) {
			return s
		}
		return ""
	}
	if m := pageIDQuery.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	m := pagePattern.FindStringSubmatch(s)
	if len(m) < 2 || systemPaths[strings.ToLower(m[1])] {
		return ""
	}
	return m[1]
}
