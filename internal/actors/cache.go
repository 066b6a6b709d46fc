package actors

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/courierdesk/courierdesk/internal/access"
)

// Cache stores resolved actors in Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(id string) string {
	return "actor:" + id
}

// Get returns the cached actor. A miss reports (nil, false, nil).
func (c *Cache) Get(ctx context.Context, id string) (*access.Actor, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	payload, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var actor access.Actor
	if err := json.Unmarshal(payload, &actor); err != nil {
		return nil, false, err
	}
	// Entries written by an older build may carry values this build rejects.
	if !actor.Role.IsValid() || !actor.PartnerSubtype.IsValid() || !actor.Status.IsValid() {
		return nil, false, nil
	}
	return &actor, true, nil
}

// Set stores the actor.
func (c *Cache) Set(ctx context.Context, actor *access.Actor) error {
	if c == nil || c.client == nil || actor == nil {
		return nil
	}
	payload, err := json.Marshal(actor)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(actor.ID), payload, c.ttl).Err()
}

// Delete evicts the actor.
func (c *Cache) Delete(ctx context.Context, id string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(id)).Err()
}
