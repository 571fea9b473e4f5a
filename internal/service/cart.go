package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/domain"
	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/event"
	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/repository"
	apperrors "github.com/shaha-expressitbd/shoppingbd-sub000/pkg/errors"
)

// ProductGetter is the slice of the catalog the cart service needs.
type ProductGetter interface {
	GetProduct(ctx context.Context, idOrSlug string) (*domain.Product, error)
}

// AddItemInput holds the parameters for adding an item to a cart.
type AddItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// UpdateQuantityInput holds the parameters for updating a line quantity.
// Non-positive values remove the line.
type UpdateQuantityInput struct {
	Quantity int `json:"quantity"`
}

// CartService is the single mutation gateway for both cart kinds. The
// mutual exclusion between the regular and preorder carts is enforced here,
// not in the domain reducers, so no caller can bypass it.
type CartService struct {
	repo     repository.CartRepository
	catalog  ProductGetter
	producer *event.Producer
	logger   *slog.Logger
	nowFunc  func() time.Time
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, catalog ProductGetter, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		catalog:  catalog,
		producer: producer,
		logger:   logger,
		nowFunc:  time.Now,
	}
}

// GetCart retrieves the cart of the given kind for a session. A session with
// nothing stored gets an empty cart, not an error.
func (s *CartService) GetCart(ctx context.Context, sessionID string, kind domain.CartKind) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.repo.Get(ctx, sessionID, kind)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.Cart{SessionID: sessionID, Kind: kind}, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

// AddItem adds a product to the cart of the given kind. The other kind being
// non-empty blocks the add with a CART_CONFLICT naming the corrective action.
// A zero-stock variant blocks with OUT_OF_STOCK. Quantities exceeding stock
// clamp silently; the effective price is resolved once and frozen on the line.
func (s *CartService) AddItem(ctx context.Context, sessionID string, kind domain.CartKind, input AddItemInput) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than 0")
	}

	if err := s.checkExclusion(ctx, sessionID, kind); err != nil {
		return nil, err
	}

	product, err := s.catalog.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("fetch product for cart add: %w", err)
	}

	item, err := s.buildLine(product, input)
	if err != nil {
		return nil, err
	}

	cart, err := s.GetCart(ctx, sessionID, kind)
	if err != nil {
		return nil, err
	}

	if kind == domain.CartKindPreorder {
		// The preorder cart is a single conceptual slot.
		cart.ReplaceWith(item)
	} else {
		cart.AddItem(item)
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, cart)
	return cart, nil
}

// UpdateQuantity sets a line's quantity, clamped to its stock snapshot.
// Non-positive quantities remove the line.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, kind domain.CartKind, productID, variantID string, quantity int) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, sessionID, kind)
	if err != nil {
		return nil, err
	}

	cart.UpdateQuantity(productID, variantID, quantity)

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, cart)
	return cart, nil
}

// RemoveItem drops a line from the cart. Removing an absent line succeeds.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, kind domain.CartKind, productID, variantID string) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, sessionID, kind)
	if err != nil {
		return nil, err
	}

	cart.RemoveItem(productID, variantID)

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, cart)
	return cart, nil
}

// Clear empties the cart of the given kind.
func (s *CartService) Clear(ctx context.Context, sessionID string, kind domain.CartKind) error {
	if err := s.repo.Delete(ctx, sessionID, kind); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if s.producer != nil {
		if err := s.producer.PublishCartCleared(ctx, sessionID, kind); err != nil {
			s.logger.WarnContext(ctx, "publish cart.cleared",
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// checkExclusion blocks the add when the opposite cart kind is non-empty.
func (s *CartService) checkExclusion(ctx context.Context, sessionID string, kind domain.CartKind) error {
	other := domain.CartKindPreorder
	if kind == domain.CartKindPreorder {
		other = domain.CartKindRegular
	}

	otherCart, err := s.GetCart(ctx, sessionID, other)
	if err != nil {
		return err
	}
	if otherCart.IsEmpty() {
		return nil
	}

	if kind == domain.CartKindPreorder {
		return apperrors.CartConflict("your cart has items; clear the cart or check out before placing a preorder")
	}
	return apperrors.CartConflict("a preorder is pending; clear the preorder or check out before adding to the cart")
}

// buildLine resolves pricing and stock for the add and freezes them on the
// line item.
func (s *CartService) buildLine(product *domain.Product, input AddItemInput) (domain.LineItem, error) {
	now := s.nowFunc()

	variant := domain.SaleVariant(product, input.VariantID)

	var (
		quote  domain.Quote
		stock  int
		image  string
		values []string
		lineID = input.ProductID
		varID  string
	)
	if variant != nil {
		quote = domain.ResolvePrice(variant.PriceFields, now)
		stock = variant.Stock
		image = variant.Image
		values = variant.VariantsValues
		varID = variant.ID
	} else {
		quote = domain.ResolvePrice(product.PriceFields, now)
		stock = product.Stock
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
	}

	if stock <= 0 {
		return domain.LineItem{}, apperrors.OutOfStock(product.Name)
	}

	return domain.LineItem{
		ProductID:     lineID,
		VariantID:     varID,
		Name:          product.Name,
		Price:         quote.EffectivePrice,
		SellingPrice:  quote.SellingPrice,
		OfferPrice:    quote.OfferPrice,
		Quantity:      input.Quantity,
		MaxStock:      stock,
		Image:         image,
		VariantValues: values,
	}, nil
}

func (s *CartService) publishUpdated(ctx context.Context, cart *domain.Cart) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.WarnContext(ctx, "publish cart.updated",
			slog.String("session_id", cart.SessionID),
			slog.String("error", err.Error()),
		)
	}
}
