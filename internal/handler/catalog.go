package handler

import (
	"log/slog"
	"net/http"
	"time"

	"mero-gateway/internal/httpcache"
	"mero-gateway/internal/model"
)

// Catalog responses are served from short-lived backend caches; the
// Cache-Control max-age mirrors the backing TTL so downstream caches never
// outlive the gateway's own view.
const (
	catalogMaxAge     = time.Minute
	collectionsMaxAge = time.Hour
)

type productsResponse struct {
	Products []model.Product `json:"products"`
}

type collectionsResponse struct {
	Collections []model.Collection `json:"collections"`
}

type menuResponse struct {
	Menu []model.Menu `json:"menu"`
}

type pagesResponse struct {
	Pages []model.Page `json:"pages"`
}

func (h *Handler) handleGetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.GetProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}

	h.setCacheHeaders(w, catalogMaxAge, httpcache.TagProducts)
	h.writeJSON(w, http.StatusOK, productsResponse{Products: products})
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.store.GetProduct(r.Context(), r.PathValue("handle"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if product == nil {
		h.writeError(w, model.NewNotFoundError("product"))
		return
	}

	h.setCacheHeaders(w, catalogMaxAge, httpcache.TagProducts)
	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	product, err := h.store.GetProduct(r.Context(), r.PathValue("handle"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if product == nil {
		h.writeError(w, model.NewNotFoundError("product"))
		return
	}

	products, err := h.store.ProductRecommendations(r.Context(), product.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}

	h.setCacheHeaders(w, catalogMaxAge, httpcache.TagProducts)
	h.writeJSON(w, http.StatusOK, productsResponse{Products: products})
}

func (h *Handler) handleGetCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.store.GetCollections(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if collections == nil {
		collections = []model.Collection{}
	}

	h.setCacheHeaders(w, collectionsMaxAge, httpcache.TagCollections)
	h.writeJSON(w, http.StatusOK, collectionsResponse{Collections: collections})
}

func (h *Handler) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	collection, err := h.store.GetCollection(r.Context(), r.PathValue("handle"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if collection == nil {
		h.writeError(w, model.NewNotFoundError("collection"))
		return
	}

	h.setCacheHeaders(w, collectionsMaxAge, httpcache.TagCollections)
	h.writeJSON(w, http.StatusOK, collection)
}

func (h *Handler) handleGetCollectionProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.GetCollectionProducts(r.Context(), r.PathValue("handle"), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}

	h.setCacheHeaders(w, catalogMaxAge, httpcache.TagProducts, httpcache.TagCollections)
	h.writeJSON(w, http.StatusOK, productsResponse{Products: products})
}

func (h *Handler) handleGetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.store.Menu(r.Context(), r.PathValue("handle"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if menu == nil {
		menu = []model.Menu{}
	}

	h.setCacheHeaders(w, collectionsMaxAge, httpcache.TagCollections)
	h.writeJSON(w, http.StatusOK, menuResponse{Menu: menu})
}

func (h *Handler) handleGetPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.store.Pages(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if pages == nil {
		pages = []model.Page{}
	}

	h.writeJSON(w, http.StatusOK, pagesResponse{Pages: pages})
}

func (h *Handler) handleGetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.store.Page(r.Context(), r.PathValue("handle"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if page == nil {
		h.writeError(w, model.NewNotFoundError("page"))
		return
	}

	h.writeJSON(w, http.StatusOK, page)
}

type revalidateResponse struct {
	Revalidated bool     `json:"revalidated"`
	Tags        []string `json:"tags"`
}

// handleRevalidate purges cached backend responses by tag. Webhooks name the
// tags in an RFC 8941 structured Cache-Tag request header.
func (h *Handler) handleRevalidate(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get(httpcache.TagHeader)
	tags, err := httpcache.ParseTagHeader(header)
	if err != nil {
		h.writeError(w, model.NewValidationError(httpcache.TagHeader, "malformed structured header"))
		return
	}
	if len(tags) == 0 {
		h.writeError(w, model.NewValidationError(httpcache.TagHeader, "at least one tag is required"))
		return
	}

	h.store.Revalidate(tags...)
	h.logger.Info("cache revalidated", slog.Any("tags", tags))
	h.writeJSON(w, http.StatusOK, revalidateResponse{Revalidated: true, Tags: tags})
}
