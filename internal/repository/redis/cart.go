package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/domain"
	apperrors "github.com/shaha-expressitbd/shoppingbd-sub000/pkg/errors"
)

// cartKey scopes the stored cart by kind so regular and preorder content
// never collide for the same session.
func cartKey(sessionID string, kind domain.CartKind) string {
	return fmt.Sprintf("cart:%s:%s", kind, sessionID)
}

// CartRepository implements repository.CartRepository using Redis.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository creates a new Redis-backed cart repository.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the cart of the given kind for a session from Redis.
func (r *CartRepository) Get(ctx context.Context, sessionID string, kind domain.CartKind) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID, kind)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart", sessionID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	return &cart, nil
}

// Save persists a cart to Redis with the configured TTL.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(cart.SessionID, cart.Kind), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// Delete removes the cart of the given kind for a session from Redis.
func (r *CartRepository) Delete(ctx context.Context, sessionID string, kind domain.CartKind) error {
	if err := r.client.Del(ctx, cartKey(sessionID, kind)).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}
