// Package cache keeps hot menu listings in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"restaurant_backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// menuHashKey holds every cached listing as one hash field per filter, so a single DEL invalidates them all.
const menuHashKey = "menu:items"

// MenuCache is a Redis-backed cache of menu item listings.
type MenuCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewMenuCache(client *redis.Client, ttl time.Duration) *MenuCache {
	return &MenuCache{Client: client, TTL: ttl}
}

// Connect opens a client and checks the server is reachable.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return client, nil
}

func (c *MenuCache) GetMenuItems(ctx context.Context, key string) ([]models.MenuItem, bool, error) {
	raw, err := c.Client.HGet(ctx, menuHashKey, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var items []models.MenuItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("decoding cached menu %q: %w", key, err)
	}
	return items, true, nil
}

func (c *MenuCache) SetMenuItems(ctx context.Context, key string, items []models.MenuItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding menu %q: %w", key, err)
	}
	_, err = c.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, menuHashKey, key, raw)
		pipe.Expire(ctx, menuHashKey, c.TTL)
		return nil
	})
	return err
}

func (c *MenuCache) InvalidateMenu(ctx context.Context) error {
	return c.Client.Del(ctx, menuHashKey).Err()
}
