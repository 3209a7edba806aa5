package catalog

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient("http://catalog.test/v1/",
		WithHTTPClient(&http.Client{Transport: rt}),
		WithAPIKey("test-key"),
		WithRetry(2, time.Millisecond),
		WithCacheSize(8),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestClientFetchProductRequest(t *testing.T) {
	var capturedURL, capturedKey string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedKey = req.Header.Get("X-Api-Key")
		return response(http.StatusOK, `{"id":"ihram/set 1","name":"Ihram Towel Set","price":150000}`), nil
	})

	product, found, err := client.FetchProduct(context.Background(), "ihram/set 1")
	if err != nil {
		t.Fatalf("fetch product: %v", err)
	}
	if !found {
		t.Fatal("expected product to be found")
	}
	if capturedURL != "http://catalog.test/v1/products/ihram%2Fset%201" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedKey != "test-key" {
		t.Fatalf("api key header missing")
	}
	if product.Name != "Ihram Towel Set" || product.Price != 150000 {
		t.Fatalf("unexpected product %+v", product)
	}
}

func TestClientFetchProductNotFound(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return response(http.StatusNotFound, `{"error":"gone"}`), nil
	})

	_, found, err := client.FetchProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("expected no error for a missing product, got %v", err)
	}
	if found {
		t.Fatal("expected product to be absent")
	}
}

func TestClientRetriesTransientFailures(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		calls++
		if calls < 3 {
			return response(http.StatusServiceUnavailable, "warming up"), nil
		}
		return response(http.StatusOK, `{"id":"p1","name":"Prayer Mat","price":85000}`), nil
	})

	_, found, err := client.FetchProduct(context.Background(), "p1")
	if err != nil || !found {
		t.Fatalf("expected retry to succeed, found=%v err=%v", found, err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestClientGivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		calls++
		return response(http.StatusBadGateway, "upstream down"), nil
	})

	_, _, err := client.FetchProduct(context.Background(), "p1")
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 1 attempt plus 2 retries, got %d", calls)
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		calls++
		return response(http.StatusUnauthorized, "bad key"), nil
	})

	_, _, err := client.FetchProduct(context.Background(), "p1")
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Fatalf("expected status in error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestClientCachesResolvedProducts(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		calls++
		return response(http.StatusOK, `{"id":"p1","name":"Prayer Mat","price":85000}`), nil
	})

	for i := 0; i < 3; i++ {
		if _, _, err := client.FetchProduct(context.Background(), "p1"); err != nil {
			t.Fatalf("fetch product: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected cached lookups, got %d requests", calls)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for empty base url")
	}
}
