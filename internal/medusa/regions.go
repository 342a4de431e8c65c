package medusa

import (
	"context"
	"strings"
	"sync"

	"mero-gateway/internal/httpcache"
	"mero-gateway/internal/model"
)

// Region resolution defaults. The store sells into the Gulf, so region
// matching prefers a region named for it or priced in dinar.
const (
	defaultLocaleHint = "gulf"
	defaultCurrency   = "bhd"
)

// fallbackRegion is served when the backend lists no regions at all, so
// price mapping always has a currency to work with. The id is not a real
// backend region: carts cannot be created against it, but catalog pages
// still render.
var fallbackRegion = model.Region{ID: "reg_fallback", CurrencyCode: defaultCurrency}

// RegionOptions tunes region selection. Zero values use the defaults.
type RegionOptions struct {
	// LocaleHint is matched case-insensitively against region names.
	LocaleHint string
	// Currency is matched against region currency codes.
	Currency string
	// Fallback overrides the built-in fallback region.
	Fallback model.Region
}

// Resolver picks the storefront's single active region and caches it for
// the life of the process. Every price shown and every cart created hangs
// off this one region, so resolution must be deterministic: hint match
// first, then currency match, then the first region listed, then the
// static fallback.
type Resolver struct {
	client     *Client
	localeHint string
	currency   string
	fallback   model.Region

	mu     sync.Mutex
	cached *model.Region
}

func newResolver(c *Client, opts RegionOptions) *Resolver {
	r := &Resolver{
		client:     c,
		localeHint: opts.LocaleHint,
		currency:   opts.Currency,
		fallback:   opts.Fallback,
	}
	if r.localeHint == "" {
		r.localeHint = defaultLocaleHint
	}
	if r.currency == "" {
		r.currency = defaultCurrency
	}
	if r.fallback.ID == "" {
		r.fallback = fallbackRegion
	}
	return r
}

// Resolve returns the active region. The first successful resolution is
// cached; a fallback result is cached too, so a dead backend costs one
// upstream call per process, not one per page. The only error returned is
// the caller's context cancellation.
func (r *Resolver) Resolve(ctx context.Context) (model.Region, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil {
		return *r.cached, nil
	}

	var resp regionsResponse
	err := r.client.get(ctx, "/regions", map[string]any{"limit": 50},
		cacheHints{ttl: regionCacheTTL, tags: []string{httpcache.TagCollections}}, &resp)
	if err != nil {
		return model.Region{}, err
	}

	region := r.pick(resp.Regions)
	r.cached = &region
	return region, nil
}

func (r *Resolver) pick(regions []Region) model.Region {
	if len(regions) == 0 {
		return r.fallback
	}

	for _, reg := range regions {
		if strings.Contains(strings.ToLower(reg.Name), r.localeHint) ||
			strings.EqualFold(reg.CurrencyCode, r.currency) {
			return toModelRegion(reg)
		}
	}
	return toModelRegion(regions[0])
}

func toModelRegion(reg Region) model.Region {
	code := strings.ToLower(reg.CurrencyCode)
	if code == "" {
		code = defaultCurrency
	}
	return model.Region{ID: reg.ID, CurrencyCode: code}
}

// Reset clears the cached region. Tests and the revalidation endpoint use
// it to force re-resolution against a changed backend.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}
