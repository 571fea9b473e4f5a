package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/domain"
	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/service"
	apperrors "github.com/shaha-expressitbd/shoppingbd-sub000/pkg/errors"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/httputil"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/middleware"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/validator"
)

// CartHandler serves one cart kind. The same handler type is mounted twice,
// once under /cart and once under /preorder.
type CartHandler struct {
	service *service.CartService
	kind    domain.CartKind
	logger  *slog.Logger
}

// NewCartHandler creates a cart HTTP handler for the given kind.
func NewCartHandler(svc *service.CartService, kind domain.CartKind, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		kind:    kind,
		logger:  logger,
	}
}

// AddItemRequest is the JSON body for adding a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityRequest is the JSON body for setting a line quantity.
// Non-positive values remove the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Get handles GET /api/v1/{cart,preorder}
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())

	cart, err := h.service.GetCart(r.Context(), sessionID, h.kind)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// AddItem handles POST /api/v1/{cart,preorder}/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.AddItem(r.Context(), sessionID, h.kind, service.AddItemInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// UpdateQuantity handles PUT /api/v1/{cart,preorder}/items/{productId}/{variantId}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	productID := chi.URLParam(r, "productId")
	variantID := variantParam(r)

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	cart, err := h.service.UpdateQuantity(r.Context(), sessionID, h.kind, productID, variantID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// RemoveItem handles DELETE /api/v1/{cart,preorder}/items/{productId}/{variantId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	productID := chi.URLParam(r, "productId")
	variantID := variantParam(r)

	cart, err := h.service.RemoveItem(r.Context(), sessionID, h.kind, productID, variantID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// Clear handles DELETE /api/v1/{cart,preorder}
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())

	if err := h.service.Clear(r.Context(), sessionID, h.kind); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

// variantParam reads the variantId path segment. Lines without a variant use
// the "-" placeholder, which maps to the empty variant ID.
func variantParam(r *http.Request) string {
	v := chi.URLParam(r, "variantId")
	if v == "-" {
		return ""
	}
	return v
}
