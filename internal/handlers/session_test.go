package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spiritmart/api/internal/platform/requestctx"
)

func TestSessionMiddlewareMintsWhenAbsent(t *testing.T) {
	var seen string
	handler := SessionMiddleware(func() string { return "fresh-id" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestctx.SessionID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seen != "fresh-id" {
		t.Fatalf("expected minted session in context, got %q", seen)
	}
	if got := rr.Header().Get(SessionHeader); got != "fresh-id" {
		t.Fatalf("expected minted session echoed, got %q", got)
	}
}

func TestSessionMiddlewarePreservesClientID(t *testing.T) {
	handler := SessionMiddleware(func() string { return "should-not-mint" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "client-id")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get(SessionHeader); got != "client-id" {
		t.Fatalf("expected client session preserved, got %q", got)
	}
}

func TestSessionMiddlewareReplacesOversizedID(t *testing.T) {
	handler := SessionMiddleware(func() string { return "replacement" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	long := make([]byte, maxSessionIDLength+1)
	for i := range long {
		long[i] = 'a'
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, string(long))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get(SessionHeader); got != "replacement" {
		t.Fatalf("expected oversized session replaced, got %q", got)
	}
}
