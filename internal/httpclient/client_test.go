package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientSetsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(WithUserAgent("modelgate-test"))
	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	if got != "modelgate-test" {
		t.Errorf("User-Agent = %q, want modelgate-test", got)
	}
}

func TestClientKeepsCallerUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("User-Agent", "vendor-sdk/1.0")

	resp, err := New(WithUserAgent("modelgate")).Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if got != "vendor-sdk/1.0" {
		t.Errorf("User-Agent = %q, want vendor-sdk/1.0", got)
	}
}

func TestRateLimitHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	// One token per minute: the first request drains the bucket.
	c := New(WithRateLimit(1.0/60, 1))

	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatalf("first GET: %v", err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)

	if _, err := c.Do(req); err == nil {
		t.Fatal("expected rate limit wait to fail")
	}
}

func TestNewDefaults(t *testing.T) {
	c := New()
	if c.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.Timeout, DefaultTimeout)
	}
	tr, ok := c.Transport.(*Transport)
	if !ok {
		t.Fatalf("Transport = %T, want *Transport", c.Transport)
	}
	if tr.limiter != nil {
		t.Error("expected no limiter by default")
	}
}
