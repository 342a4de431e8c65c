package medusa

import (
	"context"
	"net/http"
	"strings"

	"mero-gateway/internal/httpcache"
	"mero-gateway/internal/model"
)

// cartFields asks for rich cart data; the backend ignores fields it does
// not know, so this works across Medusa minor versions.
const cartFields = "*items,*items.variant,*items.variant.product," +
	"*items.variant.options,*items.variant.prices,total,subtotal,tax_total,currency_code"

// paymentCartFields additionally expands the payment collection and its
// sessions for checkout bootstrap.
const paymentCartFields = cartFields +
	",*payment_collection,*payment_collection.payment_sessions"

// CreateCart creates an empty cart in the resolved region.
func (c *Client) CreateCart(ctx context.Context) (*model.Cart, error) {
	region, err := c.regions.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	var resp cartResponse
	if err := c.do(ctx, http.MethodPost, "/carts", nil,
		map[string]any{"region_id": region.ID}, &resp); err != nil {
		return nil, err
	}

	c.Revalidate(httpcache.TagCart)
	cart := mapCart(&resp.Cart, region.CurrencyCode)
	return &cart, nil
}

// GetCart fetches the cart by id. A missing, stale, or unreachable cart is
// reported as (nil, nil): the HTTP layer treats that as "no cart yet" and
// the UI renders an empty one.
func (c *Client) GetCart(ctx context.Context, cartID string) (*model.Cart, error) {
	if cartID == "" {
		return nil, nil
	}
	region, err := c.regions.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	var resp cartResponse
	err = c.get(ctx, "/carts/"+cartID, map[string]any{"fields": cartFields},
		cacheHints{ttl: cartCacheTTL, tags: []string{httpcache.TagCart}}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Cart.ID == "" {
		return nil, nil
	}

	cart := mapCart(&resp.Cart, region.CurrencyCode)
	return &cart, nil
}

// AddToCart adds each line to the cart with one backend call per line, in
// order. When cartID is empty a fresh cart is created first; the returned
// cart carries the new id for the caller to persist.
//
// On a mid-list failure the lines already applied stay applied. The method
// returns the best-known cart state — always carrying the cart id, even
// when the very first line fails — together with a
// *model.PartialFailureError naming the applied ids, the failing id, and
// the cause, so callers can show exactly what made it into the cart.
func (c *Client) AddToCart(ctx context.Context, cartID string, lines []model.CartLineInput) (*model.Cart, error) {
	region, err := c.regions.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	if cartID == "" {
		created, err := c.CreateCart(ctx)
		if err != nil {
			return nil, err
		}
		cartID = created.ID
	}

	var last *Cart
	applied := make([]string, 0, len(lines))
	for _, line := range lines {
		var resp cartResponse
		err := c.do(ctx, http.MethodPost, "/carts/"+cartID+"/line-items", nil,
			map[string]any{"variant_id": line.MerchandiseID, "quantity": line.Quantity}, &resp)
		if err != nil {
			c.Revalidate(httpcache.TagCart)
			return c.partialCart(ctx, cartID, last, region.CurrencyCode), &model.PartialFailureError{
				Op: "add", Applied: applied, FailedID: line.MerchandiseID, Err: err,
			}
		}
		last = &resp.Cart
		applied = append(applied, line.MerchandiseID)
	}

	c.Revalidate(httpcache.TagCart)
	if last == nil {
		return c.GetCart(ctx, cartID)
	}
	cart := mapCart(last, region.CurrencyCode)
	return &cart, nil
}

// UpdateCart changes line quantities, one backend call per line, in order.
// Partial failure semantics match AddToCart.
func (c *Client) UpdateCart(ctx context.Context, cartID string, lines []model.CartLineUpdate) (*model.Cart, error) {
	region, err := c.regions.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	var last *Cart
	applied := make([]string, 0, len(lines))
	for _, line := range lines {
		var resp cartResponse
		err := c.do(ctx, http.MethodPost, "/carts/"+cartID+"/line-items/"+line.ID, nil,
			map[string]any{"quantity": line.Quantity}, &resp)
		if err != nil {
			c.Revalidate(httpcache.TagCart)
			return c.partialCart(ctx, cartID, last, region.CurrencyCode), &model.PartialFailureError{
				Op: "update", Applied: applied, FailedID: line.ID, Err: err,
			}
		}
		last = &resp.Cart
		applied = append(applied, line.ID)
	}

	c.Revalidate(httpcache.TagCart)
	if last == nil {
		return c.GetCart(ctx, cartID)
	}
	cart := mapCart(last, region.CurrencyCode)
	return &cart, nil
}

// RemoveFromCart deletes lines, one backend call per line, in order.
// DELETE on a line item returns the updated cart under "parent" (or "cart"
// on older backends); both are handled. Partial failure semantics match
// AddToCart.
func (c *Client) RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*model.Cart, error) {
	region, err := c.regions.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	var last *Cart
	applied := make([]string, 0, len(lineIDs))
	for _, lineID := range lineIDs {
		var resp lineMutationResponse
		err := c.do(ctx, http.MethodDelete, "/carts/"+cartID+"/line-items/"+lineID, nil, nil, &resp)
		if err != nil {
			c.Revalidate(httpcache.TagCart)
			return c.partialCart(ctx, cartID, last, region.CurrencyCode), &model.PartialFailureError{
				Op: "remove", Applied: applied, FailedID: lineID, Err: err,
			}
		}
		if cart := resp.cart(); cart != nil {
			last = cart
		}
		applied = append(applied, lineID)
	}

	c.Revalidate(httpcache.TagCart)
	if last == nil {
		return c.GetCart(ctx, cartID)
	}
	cart := mapCart(last, region.CurrencyCode)
	return &cart, nil
}

// mapCartPtr maps a possibly-nil wire cart, preserving nil.
func mapCartPtr(cart *Cart, currencyCode string) *model.Cart {
	if cart == nil {
		return nil
	}
	mapped := mapCart(cart, currencyCode)
	return &mapped
}

// partialCart builds the cart state returned alongside a
// *model.PartialFailureError. When the failure hit before any line landed
// there is no wire cart to map, but the cart id must still reach the caller
// — on a just-created cart it is the only handle to the applied state — so
// the cart is refetched, or synthesized from the id when the refetch comes
// back empty.
func (c *Client) partialCart(ctx context.Context, cartID string, last *Cart, currencyCode string) *model.Cart {
	if cart := mapCartPtr(last, currencyCode); cart != nil {
		return cart
	}
	if cart, err := c.GetCart(ctx, cartID); err == nil && cart != nil {
		return cart
	}
	return &model.Cart{ID: cartID, CheckoutURL: checkoutPath(cartID)}
}

// stripeProviderIDs are matched exactly before falling back to a substring
// check, so a provider like "pp_stripe_stripe" wins over lookalikes.
var stripeProviderIDs = []string{"pp_stripe_stripe", "stripe"}

// pickStripeProvider selects the Stripe provider from the region's enabled
// providers, empty when none qualifies.
func pickStripeProvider(providers []PaymentProvider) string {
	for _, want := range stripeProviderIDs {
		for _, p := range providers {
			if p.ID == want {
				return p.ID
			}
		}
	}
	for _, p := range providers {
		if strings.Contains(strings.ToLower(p.ID), "stripe") {
			return p.ID
		}
	}
	return ""
}

// InitializePaymentSession bootstraps Stripe payment for the cart:
//
//  1. fetch the cart with payment collection expansions
//  2. list the region's payment providers
//  3. select the Stripe provider
//  4. reuse the cart's payment collection, or create one
//  5. create a payment session on it
//  6. re-fetch the cart and extract the client secret
//
// Every failure past step 1 degrades instead of erroring: the typed outcome
// tells the checkout page whether payment is ready, unavailable for the
// region (no_provider), or temporarily broken (degraded, retryable). The
// cart in the result is always the best-effort current cart. A nil result
// with nil error means the cart id is stale or absent.
func (c *Client) InitializePaymentSession(ctx context.Context, cartID string) (*model.PaymentBootstrap, error) {
	if cartID == "" {
		return nil, nil
	}
	region, err := c.regions.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	var current cartResponse
	err = c.get(ctx, "/carts/"+cartID, map[string]any{"fields": paymentCartFields},
		cacheHints{}, &current)
	if err != nil {
		return nil, err
	}
	if current.Cart.ID == "" {
		return nil, nil
	}

	// The provider list decides between no_provider and degraded, so a fetch
	// failure must stay distinguishable from a genuinely empty region: fetch
	// through do, which surfaces errors instead of serving empty data.
	var providers paymentProvidersResponse
	err = c.do(ctx, http.MethodGet, "/payment-providers",
		map[string]any{"region_id": region.ID}, nil, &providers)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("listing payment providers", "region_id", region.ID, "error", err)
		return bootstrapResult(&current.Cart, region, model.PaymentOutcomeDegraded), nil
	}
	if len(providers.PaymentProviders) == 0 {
		return bootstrapResult(&current.Cart, region, model.PaymentOutcomeNoProvider), nil
	}

	providerID := pickStripeProvider(providers.PaymentProviders)
	if providerID == "" {
		return bootstrapResult(&current.Cart, region, model.PaymentOutcomeNoProvider), nil
	}

	collectionID := ""
	if current.Cart.PaymentCollection != nil {
		collectionID = current.Cart.PaymentCollection.ID
	}
	if collectionID == "" {
		var created paymentCollectionResponse
		err := c.do(ctx, http.MethodPost, "/payment-collections", nil,
			map[string]any{"cart_id": cartID}, &created)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("creating payment collection", "cart_id", cartID, "error", err)
			return bootstrapResult(&current.Cart, region, model.PaymentOutcomeDegraded), nil
		}
		collectionID = created.PaymentCollection.ID
	}

	err = c.do(ctx, http.MethodPost, "/payment-collections/"+collectionID+"/payment-sessions",
		nil, map[string]any{"provider_id": providerID}, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("creating payment session",
			"cart_id", cartID, "provider_id", providerID, "error", err)
		return bootstrapResult(&current.Cart, region, model.PaymentOutcomeDegraded), nil
	}

	var fresh cartResponse
	err = c.get(ctx, "/carts/"+cartID, map[string]any{"fields": paymentCartFields},
		cacheHints{}, &fresh)
	if err != nil {
		return nil, err
	}
	if fresh.Cart.ID == "" {
		return bootstrapResult(&current.Cart, region, model.PaymentOutcomeDegraded), nil
	}

	secret := paymentClientSecret(&fresh.Cart)
	result := bootstrapResult(&fresh.Cart, region, model.PaymentOutcomeReady)
	if secret == "" {
		result.Outcome = model.PaymentOutcomeDegraded
		return result, nil
	}
	result.Cart.PaymentSession = &model.PaymentSession{
		ProviderID:   providerID,
		ClientSecret: secret,
	}
	return result, nil
}

func bootstrapResult(cart *Cart, region model.Region, outcome model.PaymentOutcome) *model.PaymentBootstrap {
	mapped := mapCart(cart, region.CurrencyCode)
	return &model.PaymentBootstrap{Outcome: outcome, Cart: &mapped}
}

// paymentClientSecret pulls the client secret from the first payment
// session on the cart's payment collection.
func paymentClientSecret(cart *Cart) string {
	if cart.PaymentCollection == nil || len(cart.PaymentCollection.PaymentSessions) == 0 {
		return ""
	}
	return cart.PaymentCollection.PaymentSessions[0].ClientSecret()
}
