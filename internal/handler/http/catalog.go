package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/catalog"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/httputil"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/pagination"
)

// CatalogHandler serves product listing, detail, and flash deal endpoints.
type CatalogHandler struct {
	service *catalog.Service
	logger  *slog.Logger
}

// NewCatalogHandler creates a catalog HTTP handler.
func NewCatalogHandler(svc *catalog.Service, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := catalog.ListParams{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Page:     pagination.FromRequest(r),
	}
	if v := q.Get("min_price"); v != "" {
		params.MinPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v := q.Get("max_price"); v != "" {
		params.MaxPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v := q.Get("preorder"); v != "" {
		preorder := v == "true" || v == "1"
		params.Preorder = &preorder
	}

	result, err := h.service.ListProducts(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// FlashDeals handles GET /api/v1/deals
func (h *CatalogHandler) FlashDeals(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.FlashDeals(r.Context(), pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
