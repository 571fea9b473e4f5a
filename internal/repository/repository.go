package repository

import (
	"context"

	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/domain"
)

// CartRepository defines persistence for one cart kind of a session.
type CartRepository interface {
	// Get retrieves the cart of the given kind for a session. Returns a
	// not-found error when nothing is stored.
	Get(ctx context.Context, sessionID string, kind domain.CartKind) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the same
	// session and kind.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the cart of the given kind for a session.
	Delete(ctx context.Context, sessionID string, kind domain.CartKind) error
}

// WishlistRepository defines persistence for a session's wishlist.
type WishlistRepository interface {
	Get(ctx context.Context, sessionID string) (*domain.Wishlist, error)
	Save(ctx context.Context, wishlist *domain.Wishlist) error
	Delete(ctx context.Context, sessionID string) error
}

// SettingsCache caches the upstream business settings.
type SettingsCache interface {
	// Get returns the cached settings, or a not-found error on a miss.
	Get(ctx context.Context) (*domain.BusinessSettings, error)
	Set(ctx context.Context, settings *domain.BusinessSettings) error
}
