package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/domain"
	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/event"
	apperrors "github.com/shaha-expressitbd/shoppingbd-sub000/pkg/errors"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/validator"
)

// Payment method codes understood by the order API.
const (
	PaymentCOD = "cod"
	PaymentSSL = "ssl"
)

// UI-level payment selections with fixed mappings.
const (
	methodCashOnDelivery = "cashOnDelivery"
	methodPayNow         = "payNow"
	methodBkash          = "bKash"
)

// SettingsProvider supplies the business delivery and promotion settings.
type SettingsProvider interface {
	GetSettings(ctx context.Context) (*domain.BusinessSettings, error)
}

// OrderSubmitter submits an order to the upstream order API.
type OrderSubmitter interface {
	Submit(ctx context.Context, order *domain.OrderRequest, idempotencyKey string) (*domain.OrderResponse, error)
}

// CheckoutInput is the delivery form plus payment selection. The Kind names
// which cart supplies the items; it defaults to the regular cart.
type CheckoutInput struct {
	Kind            domain.CartKind `json:"kind" validate:"omitempty,oneof=regular preorder"`
	// trimmin alone so an empty value reports the length floor, not a
	// separate required message.
	CustomerName    string          `json:"customer_name" validate:"trimmin=3"`
	CustomerPhone   string          `json:"customer_phone" validate:"required,bdphone"`
	CustomerAddress string          `json:"customer_address" validate:"trimmin=10"`
	DeliveryArea    string          `json:"delivery_area" validate:"required,oneof=inside_dhaka sub_dhaka outside_dhaka"`
	CustomerNote    string          `json:"customer_note" validate:"omitempty,trimmin=5"`
	PaymentMethod   string          `json:"payment_method"`

	// Attribution passthrough, forwarded untouched.
	CustomerSource string         `json:"customer_source"`
	TTCLID         string         `json:"ttclid"`
	Tracking       map[string]any `json:"tracking"`
}

// CheckoutResult is the successful outcome: the created order plus the URL
// the client must hard-navigate to (a gateway, or the COD status page).
type CheckoutResult struct {
	OrderID     string  `json:"order_id"`
	ID          string  `json:"_id"`
	RedirectURL string  `json:"redirect_url"`
	Total       float64 `json:"total"`
	DeliveryFee float64 `json:"delivery_fee"`
	Discount    float64 `json:"discount"`
}

// CheckoutService turns a session's cart-or-preorder contents plus the
// delivery form into one submitted order. One submission may be outstanding
// per session; a failed submission never mutates the stores.
type CheckoutService struct {
	carts    *CartService
	settings SettingsProvider
	orders   OrderSubmitter
	producer *event.Producer
	logger   *slog.Logger

	siteBaseURL string

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewCheckoutService creates a checkout orchestrator.
func NewCheckoutService(carts *CartService, settings SettingsProvider, orders OrderSubmitter, producer *event.Producer, logger *slog.Logger, siteBaseURL string) *CheckoutService {
	return &CheckoutService{
		carts:       carts,
		settings:    settings,
		orders:      orders,
		producer:    producer,
		logger:      logger,
		siteBaseURL: siteBaseURL,
		inFlight:    make(map[string]struct{}),
	}
}

// MapPaymentMethod translates the UI-level selection to the order API code.
// cashOnDelivery and payNow have fixed mappings; any other non-empty gateway
// name passes through as its own code.
func MapPaymentMethod(method string) (string, error) {
	switch method {
	case "":
		return "", apperrors.InvalidInput("payment method is required")
	case methodCashOnDelivery:
		return PaymentCOD, nil
	case methodPayNow:
		return PaymentSSL, nil
	default:
		return method, nil
	}
}

// Submit runs the full checkout: validate, total, post, route. Validation
// failures carry field-level messages and never reach the network.
func (s *CheckoutService) Submit(ctx context.Context, sessionID string, input CheckoutInput) (*CheckoutResult, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	if !s.acquire(sessionID) {
		return nil, apperrors.Conflict("an order submission is already in progress for this session")
	}
	defer s.release(sessionID)

	if input.Kind == "" {
		input.Kind = domain.CartKindRegular
	}
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	paymentCode, err := MapPaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, sessionID, input.Kind)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, apperrors.InvalidInput("nothing to check out, the cart is empty")
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load business settings: %w", err)
	}

	deliveryFee := settings.DeliveryFee(input.DeliveryArea)

	// Selecting the bKash wallet applies the configured fixed promotional
	// discount. It applies even when office delivery zeroes the fees; the
	// two rules are independent.
	var discount float64
	if input.PaymentMethod == methodBkash && settings.BkashDiscount > 0 {
		discount = settings.BkashDiscount
	}

	due := cart.Subtotal() + deliveryFee - discount

	order := s.buildOrder(cart, input, paymentCode, due, discount)

	result, err := s.orders.Submit(ctx, order, uuid.New().String())
	if err != nil {
		// Stores stay untouched so the user can retry manually.
		return nil, err
	}

	out := &CheckoutResult{
		OrderID:     result.Data.OrderID,
		ID:          result.Data.ID,
		Total:       due,
		DeliveryFee: deliveryFee,
		Discount:    discount,
	}

	if paymentCode == PaymentCOD {
		out.RedirectURL = s.buildStatusURL(cart, input, out)
		s.clearSupplyingStore(ctx, sessionID, input.Kind)
		s.publishOrderPlaced(ctx, sessionID, cart, input, out, paymentCode)
		return out, nil
	}

	// Online gateway: redirect to the selected gateway, falling back to the
	// all-gateways page.
	redirect := result.Data.SelectedGatewayURL
	if redirect == "" {
		redirect = result.Data.AllGatewayURL
	}
	if redirect == "" {
		// The order exists upstream but the user cannot pay from here.
		// Keep the store so they retain context; surface the gap.
		return nil, &apperrors.AppError{
			Code:    "GATEWAY_URL_MISSING",
			Message: "order was created but no payment gateway is available",
			Status:  502,
		}
	}

	out.RedirectURL = redirect
	s.clearSupplyingStore(ctx, sessionID, input.Kind)
	s.publishOrderPlaced(ctx, sessionID, cart, input, out, paymentCode)
	return out, nil
}

func (s *CheckoutService) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *CheckoutService) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}

func (s *CheckoutService) buildOrder(cart *domain.Cart, input CheckoutInput, paymentCode string, due, discount float64) *domain.OrderRequest {
	order := &domain.OrderRequest{
		CustomerName:    input.CustomerName,
		CustomerPhone:   validator.NormalizeDigits(input.CustomerPhone),
		CustomerAddress: input.CustomerAddress,
		CustomerNote:    input.CustomerNote,
		DeliveryArea:    input.DeliveryArea,
		Due:             due,
		PaymentMethod:   paymentCode,
		CustomerSource:  input.CustomerSource,
		TTCLID:          input.TTCLID,
		Tracking:        input.Tracking,
	}
	if discount > 0 {
		order.AdditionalDiscountType = "fixed"
		order.AdditionalDiscountAmount = discount
	}
	for _, item := range cart.Items {
		order.Products = append(order.Products, domain.OrderProduct{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			VariantID: item.VariantID,
		})
	}
	return order
}

// buildStatusURL assembles the client-side order status page URL for COD
// orders. All free-text values are percent-encoded, and each line item is
// flattened into indexed itemName/itemPrice/itemQty/itemImage parameters.
func (s *CheckoutService) buildStatusURL(cart *domain.Cart, input CheckoutInput, result *CheckoutResult) string {
	params := url.Values{}
	params.Set("status", "success")
	params.Set("orderId", result.OrderID)
	params.Set("_id", result.ID)
	params.Set("customerName", input.CustomerName)
	params.Set("customerPhone", validator.NormalizeDigits(input.CustomerPhone))
	params.Set("customerAddress", input.CustomerAddress)
	params.Set("total", formatAmount(result.Total))
	params.Set("deliveryCharge", formatAmount(result.DeliveryFee))
	params.Set("itemCount", strconv.Itoa(cart.ItemCount()))
	params.Set("paymentMethod", methodCashOnDelivery)
	params.Set("additionalDiscount", formatAmount(result.Discount))

	for i, item := range cart.Items {
		idx := strconv.Itoa(i)
		params.Set("itemName"+idx, item.Name)
		params.Set("itemPrice"+idx, formatAmount(item.Price))
		params.Set("itemQty"+idx, strconv.Itoa(item.Quantity))
		params.Set("itemImage"+idx, item.Image)
	}

	return s.siteBaseURL + "/order-status?" + params.Encode()
}

func (s *CheckoutService) clearSupplyingStore(ctx context.Context, sessionID string, kind domain.CartKind) {
	if err := s.carts.Clear(ctx, sessionID, kind); err != nil {
		// The order is already placed; a stale cart is recoverable, a lost
		// order is not.
		s.logger.ErrorContext(ctx, "clear store after order",
			slog.String("session_id", sessionID),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CheckoutService) publishOrderPlaced(ctx context.Context, sessionID string, cart *domain.Cart, input CheckoutInput, result *CheckoutResult, paymentCode string) {
	if s.producer == nil {
		return
	}
	err := s.producer.PublishOrderPlaced(ctx, event.OrderPlacedData{
		SessionID:     sessionID,
		OrderID:       result.OrderID,
		PaymentMethod: paymentCode,
		DeliveryArea:  input.DeliveryArea,
		ItemCount:     cart.ItemCount(),
		Due:           result.Total,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "publish order.placed",
			slog.String("order_id", result.OrderID),
			slog.String("error", err.Error()),
		)
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
