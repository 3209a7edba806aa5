package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
	"github.com/sethvargo/go-retry"
)

const (
	defaultTimeout               = 10 * time.Second
	defaultCacheSize             = 256
	defaultMaxRetries     uint64 = 3
	defaultRetryBase             = 100 * time.Millisecond
	responseBodyReadLimit int64  = 1024
)

var errBaseURLRequired = errors.New("catalog base url is required")

// Client fetches products from the remote catalog service. Resolved products are kept
// in an LRU so repeated checkouts in one session do not refetch them.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxRetries uint64
	retryBase  time.Duration
	cache      *lru.Cache[string, Product]
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithRetry sets how many times a transient failure is retried and the base of the
// exponential backoff between attempts.
func WithRetry(maxRetries uint64, base time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		if base > 0 {
			c.retryBase = base
		}
	}
}

func WithCacheSize(size int) Option {
	return func(c *Client) {
		if size <= 0 {
			return
		}
		if cache, err := lru.New[string, Product](size); err == nil {
			c.cache = cache
		}
	}
}

// NewClient builds the catalog client for the service rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("parse catalog base url: %w", err)
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
		maxRetries: defaultMaxRetries,
		retryBase:  defaultRetryBase,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.cache == nil {
		cache, err := lru.New[string, Product](defaultCacheSize)
		if err != nil {
			return nil, fmt.Errorf("build catalog cache: %w", err)
		}
		client.cache = cache
	}
	return client, nil
}

// FetchProduct implements Source. A 404 from the service means the product no longer
// exists; 429 and 5xx responses and transport errors are retried with backoff.
func (c *Client) FetchProduct(ctx context.Context, id string) (Product, bool, error) {
	if c == nil {
		return Product{}, false, pkgerrors.New(pkgerrors.CodeDependency, "catalog client not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Product{}, false, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if p, ok := c.cache.Get(id); ok {
		return p, true, nil
	}

	var (
		product Product
		found   bool
	)
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		product, found, err = c.fetchOnce(ctx, id)
		return err
	})
	if err != nil {
		return Product{}, false, err
	}
	if found {
		c.cache.Add(id, product)
	}
	return product, found, nil
}

func (c *Client) fetchOnce(ctx context.Context, id string) (Product, bool, error) {
	endpoint := fmt.Sprintf("%s/products/%s", c.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Product{}, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build product request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Product{}, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute product request")
		}
		return Product{}, false, retry.RetryableError(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute product request"))
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Product{}, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return Product{}, false, retry.RetryableError(statusError(resp, "product request failed"))
	case resp.StatusCode != http.StatusOK:
		return Product{}, false, statusError(resp, "product request rejected")
	}

	var product Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return Product{}, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode product response")
	}
	if product.ID == "" {
		product.ID = id
	}
	return product, true, nil
}

func statusError(resp *http.Response, message string) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), message)
}
