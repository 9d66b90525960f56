package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDoMapsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "secret" {
			t.Errorf("missing configured header")
		}
		http.Error(w, "  quota exceeded  ", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test", srv.Client(), nil)
	c.Header.Set("Authorization", "secret")

	req, err := c.NewRequest(context.Background(), http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Do("search", req)
	if !IsStatus(err, http.StatusTooManyRequests) {
		t.Fatalf("err = %v, want 429 StatusError", err)
	}
	if se := err.(*StatusError); se.Body != "quota exceeded" {
		t.Fatalf("body = %q", se.Body)
	}
}

func TestDoHonoursCanceledContext(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := NewClient("test", srv.Client(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, err := c.NewRequest(ctx, http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Do("search", req); err == nil {
		t.Fatalf("expected error for canceled context")
	}
	if calls != 0 {
		t.Fatalf("server was called %d times", calls)
	}
}
