package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/service"
	apperrors "github.com/shaha-expressitbd/shoppingbd-sub000/pkg/errors"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/httputil"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/middleware"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/validator"
)

// CheckoutHandler serves order submission.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// Submit handles POST /api/v1/checkout. Validation errors come back with
// field-level messages; success returns the order IDs and the URL the client
// must hard-navigate to.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())

	var input service.CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	result, err := h.service.Submit(r.Context(), sessionID, input)
	if err != nil {
		var vErr *validator.ValidationError
		if errors.As(err, &vErr) {
			httputil.WriteValidationError(w, err)
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
