// MCP transport handler for the storefront gateway using the official MCP
// Go SDK. Exposes catalog and cart operations as agent tools. MCP carries no
// cookies, so tools that operate on a cart take the cart id explicitly.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mero-gateway/internal/model"
)

// === MCP Tool Input/Output Types ===

// SearchProductsInput is the input schema for search_products.
type SearchProductsInput struct {
	Query string `json:"query,omitempty" jsonschema:"full-text search query; empty lists the catalog"`
}

// ProductListOutput wraps a product list result.
type ProductListOutput struct {
	Products []model.Product `json:"products"`
}

// GetProductInput is the input schema for get_product.
type GetProductInput struct {
	Handle string `json:"handle" jsonschema:"product handle,required"`
}

// CollectionListOutput wraps the collection list result.
type CollectionListOutput struct {
	Collections []model.Collection `json:"collections"`
}

// GetCollectionsInput is the (empty) input schema for get_collections.
type GetCollectionsInput struct{}

// CreateCartInput is the (empty) input schema for create_cart.
type CreateCartInput struct{}

// GetCartInput is the input schema for get_cart.
type GetCartInput struct {
	CartID string `json:"cart_id" jsonschema:"cart ID,required"`
}

// AddToCartInput is the input schema for add_to_cart.
type AddToCartInput struct {
	CartID string          `json:"cart_id,omitempty" jsonschema:"cart ID; empty creates a new cart"`
	Lines  []CartLineInput `json:"lines" jsonschema:"variant lines to add,required"`
}

// CartLineInput is one variant/quantity pair to add.
type CartLineInput struct {
	MerchandiseID string `json:"merchandise_id" jsonschema:"variant ID,required"`
	Quantity      int    `json:"quantity" jsonschema:"quantity,required"`
}

// UpdateCartLineInput is the input schema for update_cart_line.
type UpdateCartLineInput struct {
	CartID   string `json:"cart_id" jsonschema:"cart ID,required"`
	LineID   string `json:"line_id" jsonschema:"cart line ID,required"`
	Quantity int    `json:"quantity" jsonschema:"new quantity,required"`
}

// RemoveCartLineInput is the input schema for remove_cart_line.
type RemoveCartLineInput struct {
	CartID string `json:"cart_id" jsonschema:"cart ID,required"`
	LineID string `json:"line_id" jsonschema:"cart line ID,required"`
}

// InitPaymentSessionInput is the input schema for init_payment_session.
type InitPaymentSessionInput struct {
	CartID string `json:"cart_id" jsonschema:"cart ID,required"`
}

// NewMCPServer creates an MCP server with storefront tools registered.
// The server exposes the same operations as the REST API but via MCP protocol.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "mero-gateway",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "Mero Closet storefront gateway. " +
				"Use these tools to browse the catalog and manage shopping carts.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_products",
		Description: "Search the product catalog. An empty query lists all products.",
	}, h.mcpSearchProducts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_product",
		Description: "Get a single product by its handle.",
	}, h.mcpGetProduct)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_collections",
		Description: "List the store's collections and category navigation entries.",
	}, h.mcpGetCollections)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_cart",
		Description: "Create a new empty cart and return its ID.",
	}, h.mcpCreateCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_to_cart",
		Description: "Add variant lines to a cart. Omit cart_id to create a cart first.",
	}, h.mcpAddToCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_cart_line",
		Description: "Change the quantity of an existing cart line.",
	}, h.mcpUpdateCartLine)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_cart_line",
		Description: "Remove a line from the cart.",
	}, h.mcpRemoveCartLine)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_cart",
		Description: "Get the current state of a cart.",
	}, h.mcpGetCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "init_payment_session",
		Description: "Bootstrap a payment session for the cart. Returns a typed outcome: ready, no_provider, or degraded.",
	}, h.mcpInitPaymentSession)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (h *Handler) mcpSearchProducts(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SearchProductsInput,
) (*mcp.CallToolResult, *ProductListOutput, error) {
	products, err := h.store.GetProducts(ctx, input.Query)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return nil, &ProductListOutput{Products: products}, nil
}

func (h *Handler) mcpGetProduct(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GetProductInput,
) (*mcp.CallToolResult, *model.Product, error) {
	if input.Handle == "" {
		return nil, nil, fmt.Errorf("handle is required")
	}

	product, err := h.store.GetProduct(ctx, input.Handle)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	if product == nil {
		return nil, nil, fmt.Errorf("product not found: %s", input.Handle)
	}
	return nil, product, nil
}

func (h *Handler) mcpGetCollections(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GetCollectionsInput,
) (*mcp.CallToolResult, *CollectionListOutput, error) {
	collections, err := h.store.GetCollections(ctx)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	if collections == nil {
		collections = []model.Collection{}
	}
	return nil, &CollectionListOutput{Collections: collections}, nil
}

func (h *Handler) mcpCreateCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CreateCartInput,
) (*mcp.CallToolResult, *model.Cart, error) {
	cart, err := h.store.CreateCart(ctx)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, cart, nil
}

func (h *Handler) mcpGetCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GetCartInput,
) (*mcp.CallToolResult, *model.Cart, error) {
	if input.CartID == "" {
		return nil, nil, fmt.Errorf("cart_id is required")
	}

	cart, err := h.store.GetCart(ctx, input.CartID)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	if cart == nil {
		return nil, nil, fmt.Errorf("cart not found: %s", input.CartID)
	}
	return nil, cart, nil
}

func (h *Handler) mcpAddToCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AddToCartInput,
) (*mcp.CallToolResult, *model.Cart, error) {
	if len(input.Lines) == 0 {
		return nil, nil, fmt.Errorf("lines is required")
	}

	lines := make([]model.CartLineInput, len(input.Lines))
	for i, line := range input.Lines {
		if line.MerchandiseID == "" {
			return nil, nil, fmt.Errorf("merchandise_id is required")
		}
		if line.Quantity <= 0 {
			return nil, nil, fmt.Errorf("quantity must be positive")
		}
		lines[i] = model.CartLineInput{
			MerchandiseID: line.MerchandiseID,
			Quantity:      line.Quantity,
		}
	}

	cart, err := h.store.AddToCart(ctx, input.CartID, lines)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, cart, nil
}

func (h *Handler) mcpUpdateCartLine(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input UpdateCartLineInput,
) (*mcp.CallToolResult, *model.Cart, error) {
	if input.CartID == "" {
		return nil, nil, fmt.Errorf("cart_id is required")
	}
	if input.LineID == "" {
		return nil, nil, fmt.Errorf("line_id is required")
	}

	cart, err := h.store.UpdateCart(ctx, input.CartID, []model.CartLineUpdate{
		{ID: input.LineID, Quantity: input.Quantity},
	})
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, cart, nil
}

func (h *Handler) mcpRemoveCartLine(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input RemoveCartLineInput,
) (*mcp.CallToolResult, *model.Cart, error) {
	if input.CartID == "" {
		return nil, nil, fmt.Errorf("cart_id is required")
	}
	if input.LineID == "" {
		return nil, nil, fmt.Errorf("line_id is required")
	}

	cart, err := h.store.RemoveFromCart(ctx, input.CartID, []string{input.LineID})
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, cart, nil
}

func (h *Handler) mcpInitPaymentSession(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input InitPaymentSessionInput,
) (*mcp.CallToolResult, *model.PaymentBootstrap, error) {
	if input.CartID == "" {
		return nil, nil, fmt.Errorf("cart_id is required")
	}

	bootstrap, err := h.store.InitializePaymentSession(ctx, input.CartID)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	if bootstrap == nil {
		return nil, nil, fmt.Errorf("cart not found: %s", input.CartID)
	}
	return nil, bootstrap, nil
}

// mcpError converts storefront errors to MCP-friendly errors. Partial
// failures keep their detail; other API errors surface code and message.
func (h *Handler) mcpError(err error) error {
	var partial *model.PartialFailureError
	if errors.As(err, &partial) {
		return fmt.Errorf("PARTIAL_FAILURE: %s", partial.Error())
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	// Don't leak internal error details
	h.logger.Error("mcp internal error", "error", err.Error())
	return fmt.Errorf("internal error")
}
