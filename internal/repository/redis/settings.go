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

const settingsKey = "business:settings"

// SettingsCache caches the upstream business settings in Redis so every
// checkout does not refetch the fee table.
type SettingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSettingsCache creates a Redis-backed settings cache.
func NewSettingsCache(client *redis.Client, ttl time.Duration) *SettingsCache {
	return &SettingsCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached settings, or a not-found error on a miss.
func (c *SettingsCache) Get(ctx context.Context) (*domain.BusinessSettings, error) {
	data, err := c.client.Get(ctx, settingsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("business settings", "cache")
		}
		return nil, fmt.Errorf("redis get settings: %w", err)
	}

	var settings domain.BusinessSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	return &settings, nil
}

// Set stores the settings with the configured TTL.
func (c *SettingsCache) Set(ctx context.Context, settings *domain.BusinessSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := c.client.Set(ctx, settingsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set settings: %w", err)
	}

	return nil
}
