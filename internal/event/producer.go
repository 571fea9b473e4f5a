package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/domain"
	pkgkafka "github.com/shaha-expressitbd/shoppingbd-sub000/pkg/kafka"
)

// Kafka topics for storefront analytics events. These are fire-and-forget:
// publish failures are logged by callers and never fail the user action.
const (
	TopicCartUpdated  = "storefront.cart.updated"
	TopicCartCleared  = "storefront.cart.cleared"
	TopicOrderPlaced  = "storefront.order.placed"
	TopicWishlistSave = "storefront.wishlist.saved"
)

const (
	AggregateTypeCart  = "cart"
	AggregateTypeOrder = "order"

	SourceStorefront = "storefront"
)

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string          `json:"session_id"`
	Kind      domain.CartKind `json:"kind"`
	ItemCount int             `json:"item_count"`
	Subtotal  float64         `json:"subtotal"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string          `json:"session_id"`
	Kind      domain.CartKind `json:"kind"`
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	SessionID     string  `json:"session_id"`
	OrderID       string  `json:"order_id"`
	PaymentMethod string  `json:"payment_method"`
	DeliveryArea  string  `json:"delivery_area"`
	ItemCount     int     `json:"item_count"`
	Due           float64 `json:"due"`
}

// WishlistSavedData is the payload for a wishlist.saved event.
type WishlistSavedData struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
}

// Producer publishes storefront analytics events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	data := CartUpdatedData{
		SessionID: cart.SessionID,
		Kind:      cart.Kind,
		ItemCount: cart.ItemCount(),
		Subtotal:  cart.Subtotal(),
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, cart.SessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", cart.SessionID),
		slog.String("kind", string(cart.Kind)),
		slog.Int("item_count", cart.ItemCount()),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string, kind domain.CartKind) error {
	data := CartClearedData{SessionID: sessionID, Kind: kind}

	event, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	return nil
}

// PublishOrderPlaced publishes an order.placed event.
func (p *Producer) PublishOrderPlaced(ctx context.Context, data OrderPlacedData) error {
	event, err := pkgkafka.NewEvent(TopicOrderPlaced, data.OrderID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderPlaced, event); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.placed event",
		slog.String("order_id", data.OrderID),
		slog.String("payment_method", data.PaymentMethod),
	)

	return nil
}

// PublishWishlistSaved publishes a wishlist.saved event.
func (p *Producer) PublishWishlistSaved(ctx context.Context, sessionID, productID string) error {
	data := WishlistSavedData{SessionID: sessionID, ProductID: productID}

	event, err := pkgkafka.NewEvent(TopicWishlistSave, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create wishlist.saved event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicWishlistSave, event); err != nil {
		return fmt.Errorf("publish wishlist.saved event: %w", err)
	}

	return nil
}
