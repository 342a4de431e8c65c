package storefront

import (
	"context"

	"mero-gateway/internal/model"
)

// Mock implements API for testing.
// Each method can be configured via function fields; unset read methods
// return empty data and unset mutations return an internal error.
type Mock struct {
	GetProductsFunc              func(ctx context.Context, query string) ([]model.Product, error)
	GetProductFunc               func(ctx context.Context, handle string) (*model.Product, error)
	ProductRecommendationsFunc   func(ctx context.Context, productID string) ([]model.Product, error)
	GetCollectionsFunc           func(ctx context.Context) ([]model.Collection, error)
	GetCollectionFunc            func(ctx context.Context, handle string) (*model.Collection, error)
	GetCollectionProductsFunc    func(ctx context.Context, handle, query string) ([]model.Product, error)
	MenuFunc                     func(ctx context.Context, handle string) ([]model.Menu, error)
	PagesFunc                    func(ctx context.Context) ([]model.Page, error)
	PageFunc                     func(ctx context.Context, handle string) (*model.Page, error)
	CreateCartFunc               func(ctx context.Context) (*model.Cart, error)
	GetCartFunc                  func(ctx context.Context, cartID string) (*model.Cart, error)
	AddToCartFunc                func(ctx context.Context, cartID string, lines []model.CartLineInput) (*model.Cart, error)
	UpdateCartFunc               func(ctx context.Context, cartID string, lines []model.CartLineUpdate) (*model.Cart, error)
	RemoveFromCartFunc           func(ctx context.Context, cartID string, lineIDs []string) (*model.Cart, error)
	InitializePaymentSessionFunc func(ctx context.Context, cartID string) (*model.PaymentBootstrap, error)
	RevalidateFunc               func(tags ...string)
}

func (m *Mock) GetProducts(ctx context.Context, query string) ([]model.Product, error) {
	if m.GetProductsFunc != nil {
		return m.GetProductsFunc(ctx, query)
	}
	return nil, nil
}

func (m *Mock) GetProduct(ctx context.Context, handle string) (*model.Product, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, handle)
	}
	return nil, nil
}

func (m *Mock) ProductRecommendations(ctx context.Context, productID string) ([]model.Product, error) {
	if m.ProductRecommendationsFunc != nil {
		return m.ProductRecommendationsFunc(ctx, productID)
	}
	return nil, nil
}

func (m *Mock) GetCollections(ctx context.Context) ([]model.Collection, error) {
	if m.GetCollectionsFunc != nil {
		return m.GetCollectionsFunc(ctx)
	}
	return nil, nil
}

func (m *Mock) GetCollection(ctx context.Context, handle string) (*model.Collection, error) {
	if m.GetCollectionFunc != nil {
		return m.GetCollectionFunc(ctx, handle)
	}
	return nil, nil
}

func (m *Mock) GetCollectionProducts(ctx context.Context, handle, query string) ([]model.Product, error) {
	if m.GetCollectionProductsFunc != nil {
		return m.GetCollectionProductsFunc(ctx, handle, query)
	}
	return nil, nil
}

func (m *Mock) Menu(ctx context.Context, handle string) ([]model.Menu, error) {
	if m.MenuFunc != nil {
		return m.MenuFunc(ctx, handle)
	}
	return nil, nil
}

func (m *Mock) Pages(ctx context.Context) ([]model.Page, error) {
	if m.PagesFunc != nil {
		return m.PagesFunc(ctx)
	}
	return nil, nil
}

func (m *Mock) Page(ctx context.Context, handle string) (*model.Page, error) {
	if m.PageFunc != nil {
		return m.PageFunc(ctx, handle)
	}
	return nil, nil
}

func (m *Mock) CreateCart(ctx context.Context) (*model.Cart, error) {
	if m.CreateCartFunc != nil {
		return m.CreateCartFunc(ctx)
	}
	return nil, model.NewInternalError(nil)
}

func (m *Mock) GetCart(ctx context.Context, cartID string) (*model.Cart, error) {
	if m.GetCartFunc != nil {
		return m.GetCartFunc(ctx, cartID)
	}
	return nil, nil
}

func (m *Mock) AddToCart(ctx context.Context, cartID string, lines []model.CartLineInput) (*model.Cart, error) {
	if m.AddToCartFunc != nil {
		return m.AddToCartFunc(ctx, cartID, lines)
	}
	return nil, model.NewInternalError(nil)
}

func (m *Mock) UpdateCart(ctx context.Context, cartID string, lines []model.CartLineUpdate) (*model.Cart, error) {
	if m.UpdateCartFunc != nil {
		return m.UpdateCartFunc(ctx, cartID, lines)
	}
	return nil, model.NewInternalError(nil)
}

func (m *Mock) RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*model.Cart, error) {
	if m.RemoveFromCartFunc != nil {
		return m.RemoveFromCartFunc(ctx, cartID, lineIDs)
	}
	return nil, model.NewInternalError(nil)
}

func (m *Mock) InitializePaymentSession(ctx context.Context, cartID string) (*model.PaymentBootstrap, error) {
	if m.InitializePaymentSessionFunc != nil {
		return m.InitializePaymentSessionFunc(ctx, cartID)
	}
	return nil, nil
}

func (m *Mock) Revalidate(tags ...string) {
	if m.RevalidateFunc != nil {
		m.RevalidateFunc(tags...)
	}
}

// Verify Mock implements API at compile time.
var _ API = (*Mock)(nil)
