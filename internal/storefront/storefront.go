// Package storefront defines the interface between the HTTP/MCP layer and
// the commerce backend. Handlers depend on this interface, not on the
// Medusa client, so tests run against the mock and a future backend swap
// stays behind one seam.
package storefront

import (
	"context"

	"mero-gateway/internal/model"
)

// API abstracts the commerce operations the gateway exposes.
//
// Read methods follow the backend client's soft-fail contract: a broken or
// unconfigured backend yields empty results, and the only error returned is
// the caller's context cancellation. Cart mutations return typed
// *model.APIError values (or *model.PartialFailureError for multi-line
// mutations that stopped midway).
type API interface {
	// GetProducts returns the catalog, optionally filtered by a search query.
	GetProducts(ctx context.Context, query string) ([]model.Product, error)

	// GetProduct looks a product up by handle; (nil, nil) when unknown.
	GetProduct(ctx context.Context, handle string) (*model.Product, error)

	// ProductRecommendations returns a capped curated list excluding the
	// given product.
	ProductRecommendations(ctx context.Context, productID string) ([]model.Product, error)

	// GetCollections returns the merged collection/category navigation list.
	GetCollections(ctx context.Context) ([]model.Collection, error)

	// GetCollection looks a navigation entry up by handle; (nil, nil) when
	// unknown.
	GetCollection(ctx context.Context, handle string) (*model.Collection, error)

	// GetCollectionProducts returns the products behind a navigation entry.
	GetCollectionProducts(ctx context.Context, handle, query string) ([]model.Product, error)

	// Menu derives a navigation menu; footer handles gain static page links.
	Menu(ctx context.Context, handle string) ([]model.Menu, error)

	// Pages lists the gateway's static content pages.
	Pages(ctx context.Context) ([]model.Page, error)

	// Page returns one static page by handle; (nil, nil) when unknown.
	Page(ctx context.Context, handle string) (*model.Page, error)

	// CreateCart creates an empty cart in the resolved region.
	CreateCart(ctx context.Context) (*model.Cart, error)

	// GetCart returns the cart by id; (nil, nil) for empty or stale ids.
	GetCart(ctx context.Context, cartID string) (*model.Cart, error)

	// AddToCart adds lines sequentially; empty cartID creates a cart first
	// and the returned cart carries the new id.
	AddToCart(ctx context.Context, cartID string, lines []model.CartLineInput) (*model.Cart, error)

	// UpdateCart changes line quantities sequentially.
	UpdateCart(ctx context.Context, cartID string, lines []model.CartLineUpdate) (*model.Cart, error)

	// RemoveFromCart deletes lines sequentially.
	RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*model.Cart, error)

	// InitializePaymentSession bootstraps payment for the cart and reports
	// a typed outcome; (nil, nil) when the cart id is empty or stale.
	InitializePaymentSession(ctx context.Context, cartID string) (*model.PaymentBootstrap, error)

	// Revalidate drops cached backend responses carrying any of the tags.
	Revalidate(tags ...string)
}
