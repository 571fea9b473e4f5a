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

// WishlistService manages a session's saved products.
type WishlistService struct {
	repo     repository.WishlistRepository
	catalog  ProductGetter
	producer *event.Producer
	logger   *slog.Logger
	nowFunc  func() time.Time
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(repo repository.WishlistRepository, catalog ProductGetter, producer *event.Producer, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		repo:     repo,
		catalog:  catalog,
		producer: producer,
		logger:   logger,
		nowFunc:  time.Now,
	}
}

// Get retrieves a session's wishlist; an empty one when nothing is stored.
func (s *WishlistService) Get(ctx context.Context, sessionID string) (*domain.Wishlist, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	wishlist, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.Wishlist{SessionID: sessionID}, nil
		}
		return nil, fmt.Errorf("get wishlist: %w", err)
	}

	return wishlist, nil
}

// Add saves a product to the wishlist with its current effective price.
// Adding a product already present is a no-op, not an error.
func (s *WishlistService) Add(ctx context.Context, sessionID, productID string) (*domain.Wishlist, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("fetch product for wishlist add: %w", err)
	}

	wishlist, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	quote := domain.ResolveProductPrice(product, "", s.nowFunc())
	item := domain.WishlistItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     quote.EffectivePrice,
	}
	if len(product.Images) > 0 {
		item.Image = product.Images[0]
	}
	if v := domain.SaleVariant(product, ""); v != nil {
		item.VariantValues = v.VariantsValues
	}

	before := len(wishlist.Items)
	wishlist.Add(item)
	if len(wishlist.Items) == before {
		return wishlist, nil
	}

	if err := s.repo.Save(ctx, wishlist); err != nil {
		return nil, fmt.Errorf("save wishlist: %w", err)
	}

	if s.producer != nil {
		if err := s.producer.PublishWishlistSaved(ctx, sessionID, product.ID); err != nil {
			s.logger.WarnContext(ctx, "publish wishlist.saved",
				slog.String("error", err.Error()),
			)
		}
	}
	return wishlist, nil
}

// Remove drops a product from the wishlist. Absent products are a no-op.
func (s *WishlistService) Remove(ctx context.Context, sessionID, productID string) (*domain.Wishlist, error) {
	wishlist, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	wishlist.Remove(productID)

	if err := s.repo.Save(ctx, wishlist); err != nil {
		return nil, fmt.Errorf("save wishlist: %w", err)
	}

	return wishlist, nil
}
