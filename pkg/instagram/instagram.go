// Package instagram models the unofficial Instagram web_profile_info endpoint
// and classifies its responses.
//
// Success and error bodies from this endpoint share top-level keys such as
// "status" and "message", so a body is routed by the literal marker
// `"status":"ok"` before any decoding. This is a heuristic: it depends on the
// upstream serializer emitting that exact byte sequence and is the one place
// where classification is not backed by a disjoint schema.
package instagram

import (
	"math/rand/v2"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/codeGROOVE-dev/metastats/pkg/classify"
	"github.com/codeGROOVE-dev/metastats/pkg/result"
)

// Platform names Instagram to cookie sources.
const Platform = "instagram"

// DefaultURL is the host serving the mobile API.
const DefaultURL = "https://i.instagram.com"

// ProfilePath is the path of the profile info endpoint.
const ProfilePath = "/api/v1/users/web_profile_info/"

// OKMarker routes a body to the success shape.
const OKMarker = `"status":"ok"`

// CookieDomain is the cookie domain used for authenticated requests.
const CookieDomain = "instagram.com"

// Result is the outcome of a profile call that reached the endpoint.
type Result = result.Result[ProfileInfo, *ProfileError]

var classifier = classify.Classifier[ProfileInfo, *ProfileError]{
	Route:   classify.Marker(OKMarker),
	Success: classify.JSON[ProfileInfo],
	Failure: decodeError,
}

// Classify decodes a profile response body.
func Classify(status int, body []byte) (Result, error) {
	return classifier.Classify(status, body)
}

// ProfileURL returns the profile info request URL for username.
func ProfileURL(base, username string) string {
	return strings.TrimRight(base, "/") + ProfilePath + "?" + url.Values{"username": {username}}.Encode()
}

// UserAgents impersonate known Instagram Android builds.
var UserAgents = []string{
	"Instagram 76.0.0.15.395 Android (24/7.0; 640dpi; 1440x2560; samsung; SM-G930F; herolte; samsungexynos8890; en_US; 138226743)",
	"Instagram 269.0.0.18.75 Android (26/8.0.0; 480dpi; 1080x1920; OnePlus; 6T Dev; devitron; qcom; en_US; 314665256)",
	"Instagram 273.0.0.16.70 Android (29/10; 420dpi; 1080x2220; Google/google; Pixel 4; flame; flame; en_US; 452187390)",
	"Instagram 289.0.0.77.109 Android (31/12; 440dpi; 1080x2340; Xiaomi; M2101K6G; sweet; qcom; en_US; 488780865)",
}

// AppIDs are X-IG-App-ID values accepted by the endpoint.
var AppIDs = []string{
	"936619743392459",
	"1217981644879628",
	"567067343352427",
	"124024574287414",
}

// Fixed request headers for the hardened variant.
const (
	AcceptLanguage = "en-US,en;q=0.9"
	Capabilities   = "3brTvw=="
	ConnectionType = "WIFI"
)

// Picker returns a uniformly chosen index in [0, n).
type Picker func(n int) int

// Headers builds the impersonation headers, choosing a user agent and an
// app id with pick. A nil pick uses math/rand/v2.
func Headers(pick Picker) http.Header {
	if pick == nil {
		pick = rand.IntN
	}
	h := http.Header{}
	h.Set("User-Agent", UserAgents[pick(len(UserAgents))])
	h.Set("Accept-Language", AcceptLanguage)
	h.Set("X-IG-App-ID", AppIDs[pick(len(AppIDs))])
	h.Set("X-IG-Capabilities", Capabilities)
	h.Set("X-IG-Connection-Type", ConnectionType)
	return h
}

// Match returns true if the URL is an Instagram profile URL.
func Match(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	if !strings.Contains(lower, "instagram.com/") {
		return false
	}
	return extractUsername(urlStr) != ""
}

var (
	usernamePattern = regexp.MustCompile(`(?i)instagram\.com/([a-zA-Z0-9_.]+)`)
	handlePattern   = regexp.MustCompile(`^[a-zA-Z0-9_.]{1,30}$`)
)

// Username returns the handle from a profile URL or an "@handle" string.
// It returns "" when s names no profile.
func Username(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(strings.ToLower(s), "instagram.com") {
		return extractUsername(s)
	}
	s = strings.TrimPrefix(s, "@")
	if !handlePattern.MatchString(s) {
		return ""
	}
	return s
}

func extractUsername(urlStr string) string {
	matches := usernamePattern.FindStringSubmatch(urlStr)
	if len(matches) < 2 {
		return ""
	}
	username := matches[1]

	// Skip non-profile paths
	systemPaths := map[string]bool{
		"p": true, "reel": true, "reels": true, "stories": true,
		"explore": true, "direct": true, "accounts": true,
		"about": true, "legal": true, "privacy": true,
		"terms": true, "api": true, "developer": true,
	}
	if systemPaths[strings.ToLower(username)] {
		return ""
	}

	return username
}
