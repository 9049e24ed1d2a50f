package instagram

import (
	"encoding/json"
	"errors"
	"net/url"
	"slices"
	"strings"
	"testing"

	"github.com/codeGROOVE-dev/metastats/pkg/classify"
	"github.com/google/go-cmp/cmp"
)

func ptr(s string) *string { return &s }

const okBody = `{"data":{"user":{"eimu_id":"1784","id":"25025320","username":"instagram","full_name":"Instagram","biography":"Discover what's new.","category_name":"Digital creator","external_url":"https://about.instagram.com","edge_followed_by":{"count":672000000},"edge_follow":{"count":150},"edge_owner_to_timeline_media":{"count":7800},"highlight_reel_count":14,"is_verified":true,"is_private":false}},"status":"ok"}`

func TestMatch(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://instagram.com/johndoe", true},
		{"https://www.instagram.com/johndoe", true},
		{"https://INSTAGRAM.COM/johndoe", true},
		{"https://instagram.com/p/ABC123", false},     // post URL
		{"https://instagram.com/reel/ABC123", false},  // reel URL
		{"https://instagram.com/stories/user", false}, // stories URL
		{"https://instagram.com/explore", false},      // explore page
		{"https://twitter.com/johndoe", false},
		{"https://example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := Match(tt.url)
			if got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://instagram.com/johndoe", "johndoe"},
		{"https://www.instagram.com/jane_doe/", "jane_doe"},
		{"https://instagram.com/user.name", "user.name"},
		{"https://instagram.com/p/ABC123", ""},
		{"https://instagram.com/explore", ""},
		{"chachi", "chachi"},
		{"@chachi", "chachi"},
		{"  spaced  ", "spaced"},
		{"bad handle!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Username(tt.in); got != tt.want {
				t.Errorf("Username(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestProfileURL(t *testing.T) {
	got := ProfileURL(DefaultURL+"/", "jane_doe")
	want := "https://i.instagram.com/api/v1/users/web_profile_info/?username=jane_doe"
	if got != want {
		t.Errorf("ProfileURL() = %q, want %q", got, want)
	}

	u, err := url.Parse(ProfileURL(DefaultURL, "a&b"))
	if err != nil {
		t.Fatal(err)
	}
	if u.Query().Get("username") != "a&b" {
		t.Errorf("username not escaped: %s", u)
	}
}

func TestHeaders(t *testing.T) {
	h := Headers(nil)
	if !slices.Contains(UserAgents, h.Get("User-Agent")) {
		t.Errorf("User-Agent %q not from pool", h.Get("User-Agent"))
	}
	if !slices.Contains(AppIDs, h.Get("X-IG-App-ID")) {
		t.Errorf("X-IG-App-ID %q not from pool", h.Get("X-IG-App-ID"))
	}
	for name, want := range map[string]string{
		"Accept-Language":      AcceptLanguage,
		"X-IG-Capabilities":    Capabilities,
		"X-IG-Connection-Type": ConnectionType,
	} {
		if got := h.Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}

	last := Headers(func(n int) int { return n - 1 })
	if last.Get("User-Agent") != UserAgents[len(UserAgents)-1] || last.Get("X-IG-App-ID") != AppIDs[len(AppIDs)-1] {
		t.Errorf("Headers(pick) ignored picker: %v", last)
	}
	if !strings.HasPrefix(last.Get("User-Agent"), "Instagram ") {
		t.Errorf("User-Agent %q does not impersonate the app", last.Get("User-Agent"))
	}
}

func TestClassifySuccess(t *testing.T) {
	r, err := Classify(200, []byte(okBody))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	want := ProfileInfo{
		InternalID:         "1784",
		ID:                 "25025320",
		Username:           "instagram",
		FullName:           "Instagram",
		Biography:          "Discover what's new.",
		CategoryName:       ptr("Digital creator"),
		ExternalURL:        "https://about.instagram.com",
		FollowedByCount:    672000000,
		FollowCount:        150,
		MediaCount:         7800,
		HighlightReelCount: 14,
		IsVerified:         true,
	}
	if diff := cmp.Diff(want, r.MustSuccess()); diff != "" {
		t.Errorf("ProfileInfo mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyMinimalSuccess(t *testing.T) {
	body := `{"data":{"user":{"eimu_id":"9","full_name":"A","biography":"","edge_followed_by":{"count":3},"highlight_reel_count":0,"category_name":null}},"status":"ok"}`
	r, err := Classify(200, []byte(body))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	got := r.MustSuccess()
	if got.CategoryName != nil {
		t.Errorf("CategoryName = %q, want nil", *got.CategoryName)
	}
	if got.FollowedByCount != 3 || got.InternalID != "9" {
		t.Errorf("ProfileInfo = %+v", got)
	}
}

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *ProfileError
	}{
		{
			name: "rate limited",
			body: `{"message":"Please wait a few minutes before you try again.","require_login":true,"status":"fail"}`,
			want: &ProfileError{Message: "Please wait a few minutes before you try again.", RequireLogin: true, Status: "fail"},
		},
		{
			name: "rollout",
			body: `{"message":"useragent mismatch","igweb_rollout":true,"status":"fail"}`,
			want: &ProfileError{Message: "useragent mismatch", RolloutFlag: true, Status: "fail"},
		},
		{
			// A body shaped like success but lacking the marker is still routed to the error shape.
			name: "status spelled differently",
			body: `{"message":"","status": "ok"}`,
			want: &ProfileError{Status: "ok"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Classify(401, []byte(tt.body))
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			got, ok := r.Failure()
			if !ok {
				t.Fatal("expected failure result")
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ProfileError mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassifyUnparseable(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"html login wall", `<!DOCTYPE html><html><head><title>Login • Instagram</title></head></html>`},
		{"marker but no user", `{"data":{},"status":"ok"}`},
		{"error missing status", `{"message":"nope"}`},
		{"null count", `{"data":{"user":{"edge_followed_by":{"count":null}}},"status":"ok"}`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(200, []byte(tt.body))
			if !errors.Is(err, classify.ErrUnparseable) {
				t.Fatalf("Classify() error = %v, want ErrUnparseable", err)
			}
		})
	}
}

func TestClassifyUserNotFound(t *testing.T) {
	_, err := Classify(404, []byte(`{"data":{"user":null},"status":"ok"}`))
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Classify() error = %v, want ErrUserNotFound", err)
	}
	if !errors.Is(err, classify.ErrUnparseable) {
		t.Errorf("Classify() error = %v, want ErrUnparseable", err)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	in := ProfileInfo{
		InternalID:         "5",
		FullName:           "Acme",
		Biography:          `quotes "status":"fail" inside`,
		FollowedByCount:    10,
		HighlightReelCount: 2,
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), OKMarker) {
		t.Fatalf("marshaled profile lacks marker: %s", b)
	}
	r, err := Classify(200, b)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if diff := cmp.Diff(in, r.MustSuccess()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestProfileErrorMessage(t *testing.T) {
	e := &ProfileError{Message: "wait", RequireLogin: true, Status: "fail"}
	if got, want := e.Error(), "instagram fail: wait (login required)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
