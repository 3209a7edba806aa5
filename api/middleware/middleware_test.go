package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mabrurgoods/storefront/pkg/logger"
)

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	var seen string
	h := RequestID(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(requestIDHeader) != seen {
		t.Fatalf("expected generated request id to be echoed, got %q / %q", seen, rec.Header().Get(requestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "req-123" {
		t.Fatalf("expected incoming request id to be kept, got %q", seen)
	}
}

func TestLoggingRecordsStatus(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	h := Logging(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	out := buf.String()
	if !strings.Contains(out, "request.complete") || !strings.Contains(out, `"status":418`) {
		t.Fatalf("unexpected log output %s", out)
	}
	if !strings.Contains(out, `"path":"/api/cart"`) {
		t.Fatalf("expected path field, got %s", out)
	}
}

func TestRecovererWritesInternalError(t *testing.T) {
	h := Recoverer(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INTERNAL_ERROR") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestGuestSessionTagsRequests(t *testing.T) {
	var seen string
	h := GuestSession("guest-1", logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GuestSessionFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen != "guest-1" || rec.Header().Get(guestSessionHeader) != "guest-1" {
		t.Fatalf("expected guest session to be attached, got %q", seen)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	h := CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected origin to be allowed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected unknown origin to be rejected, got %q", got)
	}
}
