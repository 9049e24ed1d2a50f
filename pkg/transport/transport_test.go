package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetReturnsErrorStatusesAsData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Test"); got != "yes" {
			t.Errorf("X-Test = %q, want yes", got)
		}
		if r.Header.Get("User-Agent") != UserAgent {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad","type":"OAuthException","code":100}}`)) //nolint:errcheck // test
	}))
	defer srv.Close()

	c := New()
	resp, err := c.Get(context.Background(), srv.URL, http.Header{"X-Test": {"yes"}})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), "OAuthException") {
		t.Errorf("Body = %q", resp.Body)
	}
}

func TestGetKeepsCallerUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Header.Get("User-Agent"))) //nolint:errcheck // test
	}))
	defer srv.Close()

	resp, err := New().Get(context.Background(), srv.URL, http.Header{"User-Agent": {"Instagram 76.0.0.15.395"}})
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(resp.Body) != "Instagram 76.0.0.15.395" {
		t.Errorf("User-Agent sent = %q", resp.Body)
	}
}

func TestGetTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := New().Get(context.Background(), addr+"/x?access_token=secret", nil)
	if err == nil {
		t.Fatal("Get() expected error for closed server")
	}
	if !errors.Is(err, ErrTransport) {
		t.Errorf("errors.Is(err, ErrTransport) = false for %v", err)
	}
	if strings.Contains(err.Error(), "secret") {
		t.Errorf("error leaks token: %v", err)
	}
	if n := strings.Count(err.Error(), addr); n != 1 {
		t.Errorf("error names the URL %d times, want once: %v", n, err)
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{URL: "https://graph.facebook.com/v19.0/1?access_token=abc", Err: errors.New("boom")}
	want := "GET https://graph.facebook.com/v19.0/1?access_token=REDACTED: boom"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestGetCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Get(ctx, srv.URL, nil)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("Get() error = %v, want ErrTransport", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v, want to wrap context.Canceled", err)
	}
}

func TestGetNoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	resp, err := New().Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d", resp.StatusCode)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}
}

func TestGetWithRetries(t *testing.T) {
	tests := []struct {
		name       string
		failures   int32
		failStatus int
		retries    uint
		wantCalls  int32
		wantStatus int
	}{
		{name: "recovers after 503", failures: 2, failStatus: http.StatusServiceUnavailable, retries: 3, wantCalls: 3, wantStatus: http.StatusOK},
		{name: "recovers after 429", failures: 1, failStatus: http.StatusTooManyRequests, retries: 1, wantCalls: 2, wantStatus: http.StatusOK},
		{name: "gives up and returns last body", failures: 10, failStatus: http.StatusBadGateway, retries: 2, wantCalls: 3, wantStatus: http.StatusBadGateway},
		{name: "does not retry 400", failures: 10, failStatus: http.StatusBadRequest, retries: 3, wantCalls: 1, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if calls.Add(1) <= tt.failures {
					w.WriteHeader(tt.failStatus)
					_, _ = w.Write([]byte(`{"error":{"message":"busy","type":"x","code":2}}`)) //nolint:errcheck // test
					return
				}
				_, _ = w.Write([]byte(`{"id":"1"}`)) //nolint:errcheck // test
			}))
			defer srv.Close()

			resp, err := New(WithRetries(tt.retries)).Get(context.Background(), srv.URL, nil)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if n := calls.Load(); n != tt.wantCalls {
				t.Errorf("server called %d times, want %d", n, tt.wantCalls)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			in:   "https://graph.facebook.com/v19.0/1?access_token=abc&fields=id",
			want: "https://graph.facebook.com/v19.0/1?access_token=REDACTED&fields=id",
		},
		{
			in:   "https://graph.facebook.com/v19.0/1?appsecret_proof=f00&access_token=abc",
			want: "https://graph.facebook.com/v19.0/1?access_token=REDACTED&appsecret_proof=REDACTED",
		},
		{
			in:   "https://i.instagram.com/api/v1/users/web_profile_info/?username=nasa",
			want: "https://i.instagram.com/api/v1/users/web_profile_info/?username=nasa",
		},
	}
	for _, tt := range tests {
		if got := Redact(tt.in); got != tt.want {
			t.Errorf("Redact(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
