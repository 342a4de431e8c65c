package handler

import (
	"errors"
	"net/http"

	"mero-gateway/internal/model"
)

// cartCookieName keys the shopper's cart session. The cookie is HTTP-only;
// the browser never reads it, it just rides along on every request.
const cartCookieName = "cartId"

func cartIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(cartCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setCartCookie(w http.ResponseWriter, cartID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    cartID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type addToCartRequest struct {
	Lines []model.CartLineInput `json:"lines"`
}

type updateCartRequest struct {
	Lines []model.CartLineUpdate `json:"lines"`
}

type removeFromCartRequest struct {
	LineIDs []string `json:"lineIds"`
}

// partialFailureResponse reports a multi-line mutation that stopped midway:
// which lines were applied, which one failed, and the cart as it now stands.
type partialFailureResponse struct {
	Error    errorBody   `json:"error"`
	Applied  []string    `json:"applied"`
	FailedID string      `json:"failedId"`
	Cart     *model.Cart `json:"cart,omitempty"`
}

// writeCartError handles mutation errors. Partial failures get their own
// response shape, carrying the cart as it stands after the applied lines,
// so the client can reconcile instead of blindly retrying.
func (h *Handler) writeCartError(w http.ResponseWriter, cart *model.Cart, err error) {
	var partial *model.PartialFailureError
	if !errors.As(err, &partial) {
		h.writeError(w, err)
		return
	}

	status := http.StatusBadGateway
	var apiErr *model.APIError
	if errors.As(partial.Err, &apiErr) {
		status = apiErr.StatusCode
	}

	applied := partial.Applied
	if applied == nil {
		applied = []string{}
	}

	h.writeJSON(w, status, partialFailureResponse{
		Error: errorBody{
			Code:    "PARTIAL_FAILURE",
			Message: partial.Error(),
		},
		Applied:  applied,
		FailedID: partial.FailedID,
		Cart:     cart,
	})
}

func (h *Handler) handleCreateCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.store.CreateCart(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	setCartCookie(w, cart.ID)
	h.writeJSON(w, http.StatusCreated, cart)
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.store.GetCart(r.Context(), cartIDFromRequest(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if cart == nil {
		h.writeError(w, model.NewNotFoundError("cart"))
		return
	}

	h.writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if len(req.Lines) == 0 {
		h.writeError(w, model.NewValidationError("lines", "at least one line is required"))
		return
	}
	for _, line := range req.Lines {
		if line.MerchandiseID == "" {
			h.writeError(w, model.NewValidationError("merchandiseId", "must not be empty"))
			return
		}
		if line.Quantity <= 0 {
			h.writeError(w, model.NewValidationError("quantity", "must be positive"))
			return
		}
	}

	cart, err := h.store.AddToCart(r.Context(), cartIDFromRequest(r), req.Lines)

	// AddToCart creates the cart when the session had none; pin the id even
	// on a partial failure, or the applied state lives in a cart the
	// session can never reach again.
	if cart != nil && cart.ID != "" {
		setCartCookie(w, cart.ID)
	}

	if err != nil {
		h.writeCartError(w, cart, err)
		return
	}
	if cart == nil {
		h.writeError(w, model.NewNotFoundError("cart"))
		return
	}

	h.writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) handleUpdateCart(w http.ResponseWriter, r *http.Request) {
	var req updateCartRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if len(req.Lines) == 0 {
		h.writeError(w, model.NewValidationError("lines", "at least one line is required"))
		return
	}

	cartID := cartIDFromRequest(r)
	if cartID == "" {
		h.writeError(w, model.NewNotFoundError("cart"))
		return
	}

	cart, err := h.store.UpdateCart(r.Context(), cartID, req.Lines)
	if err != nil {
		h.writeCartError(w, cart, err)
		return
	}

	h.writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var req removeFromCartRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if len(req.LineIDs) == 0 {
		h.writeError(w, model.NewValidationError("lineIds", "at least one line id is required"))
		return
	}

	cartID := cartIDFromRequest(r)
	if cartID == "" {
		h.writeError(w, model.NewNotFoundError("cart"))
		return
	}

	cart, err := h.store.RemoveFromCart(r.Context(), cartID, req.LineIDs)
	if err != nil {
		h.writeCartError(w, cart, err)
		return
	}

	h.writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) handlePaymentSession(w http.ResponseWriter, r *http.Request) {
	cartID := cartIDFromRequest(r)
	if cartID == "" {
		h.writeError(w, model.NewNotFoundError("cart"))
		return
	}

	bootstrap, err := h.store.InitializePaymentSession(r.Context(), cartID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if bootstrap == nil {
		h.writeError(w, model.NewNotFoundError("cart"))
		return
	}

	h.writeJSON(w, http.StatusOK, bootstrap)
}
