// Package handler provides the HTTP surface of the storefront gateway.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"mero-gateway/internal/httpcache"
	"mero-gateway/internal/model"
	"mero-gateway/internal/storefront"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	store  storefront.API
	logger *slog.Logger
}

// New creates a new Handler backed by the given storefront.
func New(store storefront.API, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
// Uses Go 1.22+ method routing patterns.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Catalog
	mux.HandleFunc("GET /products", h.handleGetProducts)
	mux.HandleFunc("GET /products/{handle}", h.handleGetProduct)
	mux.HandleFunc("GET /products/{handle}/recommendations", h.handleRecommendations)
	mux.HandleFunc("GET /collections", h.handleGetCollections)
	mux.HandleFunc("GET /collections/{handle}", h.handleGetCollection)
	mux.HandleFunc("GET /collections/{handle}/products", h.handleGetCollectionProducts)

	// Cart session, keyed by the cartId cookie
	mux.HandleFunc("POST /cart", h.handleCreateCart)
	mux.HandleFunc("GET /cart", h.handleGetCart)
	mux.HandleFunc("POST /cart/lines", h.handleAddToCart)
	mux.HandleFunc("PATCH /cart/lines", h.handleUpdateCart)
	mux.HandleFunc("DELETE /cart/lines", h.handleRemoveFromCart)
	mux.HandleFunc("POST /checkout/payment-session", h.handlePaymentSession)

	// Content
	mux.HandleFunc("GET /menu/{handle}", h.handleGetMenu)
	mux.HandleFunc("GET /pages", h.handleGetPages)
	mux.HandleFunc("GET /pages/{handle}", h.handleGetPage)

	// Cache invalidation webhook
	mux.HandleFunc("POST /revalidate", h.handleRevalidate)

	// MCP transport - JSON-RPC endpoint using official MCP SDK
	mux.Handle("/mcp", h.NewMCPHandler())

	// Health check
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status/code from APIError if present.
// Uses errors.As() to unwrap error chains (e.g., fmt.Errorf wrapping).
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError

	if errors.As(err, &apiErr) {
		// Found APIError in error chain - use it
	} else {
		// Wrap unexpected errors
		apiErr = &model.APIError{
			Code:       "INTERNAL_ERROR",
			Message:    "an internal error occurred",
			StatusCode: http.StatusInternalServerError,
		}
		h.logger.Error("internal error", slog.String("error", err.Error()))
	}

	h.writeJSON(w, apiErr.StatusCode, errorResponse{
		Error: errorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
		},
	})
}

// errorResponse is the JSON structure for error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MaxRequestBodySize limits JSON request bodies to 1MB to prevent DoS.
const MaxRequestBodySize = 1 << 20 // 1MB

// decodeJSON reads JSON from request body into v.
// Limits body size to MaxRequestBodySize to prevent memory exhaustion.
// Returns an APIError if decoding fails.
func decodeJSON(r *http.Request, v interface{}) error {
	// Limit request body size to prevent DoS
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Don't expose internal error details to client
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}

// setCacheHeaders marks a response as produced from cached backend reads.
// Tags go out as an RFC 8941 structured Cache-Tag header so CDNs and the
// revalidation webhook speak the same vocabulary.
func (h *Handler) setCacheHeaders(w http.ResponseWriter, maxAge time.Duration, tags ...string) {
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(maxAge.Seconds())))
	header, err := httpcache.FormatTagHeader(tags)
	if err != nil {
		h.logger.Error("failed to format cache tags", slog.String("error", err.Error()))
		return
	}
	w.Header().Set(httpcache.TagHeader, header)
}

// === Health ===

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
