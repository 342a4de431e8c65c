package medusa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"mero-gateway/internal/httpcache"
	"mero-gateway/internal/model"
)

// storePath is the base path for Medusa v2 Store API endpoints.
const storePath = "/store"

// requestTimeout bounds every backend call. The storefront renders inside
// this window or falls back to empty data; it never hangs on the backend.
const requestTimeout = 15 * time.Second

// publishableKeyHeader authenticates Store API requests and scopes them to
// a sales channel.
const publishableKeyHeader = "x-publishable-api-key"

// userAgent identifies this gateway to the backend.
const userAgent = "Mero-Gateway/1.0"

// Cache windows per data class. Regions are immutable in practice, catalog
// changes rarely, carts are mutated by the same user who reads them.
const (
	regionCacheTTL  = time.Hour
	catalogCacheTTL = time.Minute
	cartCacheTTL    = 5 * time.Second
)

// Config holds the Medusa client configuration.
//
// BackendURL and PublishableKey are soft-required: with either missing the
// client still constructs, read operations return empty data, and mutations
// fail with a 503-class error. This keeps the storefront rendering when the
// backend is not provisioned yet.
type Config struct {
	BackendURL     string
	PublishableKey string

	// Transport overrides the HTTP transport (e.g. the browser-fingerprint
	// transport). Nil means http.DefaultTransport.
	Transport http.RoundTripper

	// Cache is the shared tagged response cache. Nil disables read caching.
	Cache *httpcache.Cache

	// Region tunes region resolution; zero value uses the defaults.
	Region RegionOptions

	Logger *slog.Logger
}

// Client talks to the Medusa v2 Store API.
//
// Read methods follow a soft-fail contract: network failures, timeouts, and
// backend error statuses are logged and reported as empty results, so a
// broken backend degrades the storefront instead of breaking it. The only
// error a read returns is the caller's own context cancellation. Mutations
// return typed *model.APIError values instead.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	publishableKey string
	cache          *httpcache.Cache
	logger         *slog.Logger
	regions        *Resolver

	// warnOnce limits the missing-configuration log to one line per process.
	warnOnce sync.Once
}

// New creates a Medusa client. It never fails: missing configuration
// degrades behavior per the Config contract rather than blocking startup.
func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	baseURL := cfg.BackendURL
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout:   requestTimeout,
			Transport: cfg.Transport,
		},
		baseURL:        baseURL,
		publishableKey: cfg.PublishableKey,
		cache:          cfg.Cache,
		logger:         logger,
	}
	c.regions = newResolver(c, cfg.Region)
	return c
}

// Regions exposes the region resolver, mainly so tests can reset its cache.
func (c *Client) Regions() *Resolver {
	return c.regions
}

// Revalidate drops cached responses carrying any of the given tags.
func (c *Client) Revalidate(tags ...string) {
	if c.cache != nil {
		c.cache.Purge(tags...)
	}
}

func (c *Client) configured() bool {
	return c.baseURL != "" && c.publishableKey != ""
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(publishableKeyHeader, c.publishableKey)
}

// queryValues converts typed query parameters to url.Values.
// Empty strings and zero numbers are dropped (the backend treats an absent
// filter and an empty one differently); booleans are always encoded because
// false is meaningful (e.g. include_descendants_tree=false).
func queryValues(params map[string]any) url.Values {
	q := url.Values{}
	for key, val := range params {
		switch v := val.(type) {
		case string:
			if v != "" {
				q.Set(key, v)
			}
		case int:
			if v != 0 {
				q.Set(key, strconv.Itoa(v))
			}
		case bool:
			q.Set(key, strconv.FormatBool(v))
		case []string:
			for _, e := range v {
				if e != "" {
					q.Add(key, e)
				}
			}
		}
	}
	return q
}

// cacheHints carries the cache window and invalidation tags for a read.
// A zero TTL disables caching for the request.
type cacheHints struct {
	ttl  time.Duration
	tags []string
}

// get performs a Store API read into out, applying the soft-fail contract.
// On any failure out is left zero-valued and the failure is logged; the
// only non-nil return is the caller's context error, which must propagate
// so cancellation is not misread as an empty store.
func (c *Client) get(ctx context.Context, path string, params map[string]any, hints cacheHints, out any) error {
	if !c.configured() {
		c.warnOnce.Do(func() {
			c.logger.Warn("store backend not configured, read paths serve empty data")
		})
		return nil
	}

	u := c.baseURL + storePath + path
	if q := queryValues(params); len(q) > 0 {
		u += "?" + q.Encode()
	}

	if c.cache != nil && hints.ttl > 0 {
		if body, ok := c.cache.Get(u); ok {
			if err := json.Unmarshal(body, out); err == nil {
				return nil
			}
			// Corrupt entry: fall through and refetch.
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		c.logger.Error("building store request", "url", u, "error", err)
		return nil
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("store request failed", "url", u, "error", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("reading store response", "url", u, "error", err)
		return nil
	}

	// 404 is a normal outcome for lookups (stale cart id, unknown handle).
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode >= 400 {
		c.logger.Warn("store request returned error status",
			"url", u, "status", resp.StatusCode)
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Warn("decoding store response", "url", u, "error", err)
		return nil
	}

	if c.cache != nil && hints.ttl > 0 {
		c.cache.Set(u, body, hints.ttl, hints.tags)
	}
	return nil
}

// do performs a Store API mutation. Unlike reads, mutations surface typed
// errors: the caller changed state (or tried to) and must know the outcome.
func (c *Client) do(ctx context.Context, method, path string, params map[string]any, reqBody, out any) error {
	if !c.configured() {
		return model.NewNotConfiguredError()
	}

	u := c.baseURL + storePath + path
	if q := queryValues(params); len(q) > 0 {
		u += "?" + q.Encode()
	}

	var bodyReader io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return model.NewInternalError(fmt.Errorf("marshaling request: %w", err))
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return model.NewInternalError(fmt.Errorf("building request: %w", err))
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return model.NewUpstreamError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return model.NewUpstreamError(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode >= 400 {
		return parseErrorResponse(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return model.NewUpstreamError(fmt.Errorf("decoding response: %w", err))
		}
	}
	return nil
}

// medusaError is the Store API error envelope.
type medusaError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// parseErrorResponse converts a Medusa error response to a typed APIError.
func parseErrorResponse(statusCode int, body []byte) error {
	var me medusaError
	json.Unmarshal(body, &me) // best effort

	switch statusCode {
	case http.StatusNotFound:
		return model.NewNotFoundError("cart")
	case http.StatusUnauthorized, http.StatusForbidden:
		return model.NewUnauthorizedError("store backend rejected the publishable key")
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		msg := me.Message
		if msg == "" {
			msg = "invalid request"
		}
		return model.NewValidationError("request", msg)
	case http.StatusTooManyRequests:
		return model.NewRateLimitError()
	default:
		return model.NewUpstreamError(
			fmt.Errorf("status %d: %s %s", statusCode, me.Type, me.Message))
	}
}
