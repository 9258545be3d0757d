package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CACHE_TOMBSTONE marks a key as recently invalidated. A tombstoned key
	// reads as a miss and cannot be filled until it expires.
	CACHE_TOMBSTONE  = "invalidated"
	INVALIDATION_TTL = 5 * time.Second
)

// EntityCache stores JSON encoded entities under a key with a fixed TTL.
type EntityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEntityCache(client *redis.Client, ttl time.Duration) *EntityCache {
	return &EntityCache{client: client, ttl: ttl}
}

// Get decodes the cached value into dest and reports whether the key existed.
func (e *EntityCache) Get(c context.Context, key string, dest any) (bool, error) {
	if e == nil || e.client == nil {
		return false, nil
	}
	raw, err := e.client.Get(c, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed getting cache key=%s with error=%w", key, err)
	}
	if string(raw) == CACHE_TOMBSTONE {
		return false, nil
	}
	err = json.Unmarshal(raw, dest)
	if err != nil {
		return false, fmt.Errorf("failed decoding cache key=%s with error=%w", key, err)
	}
	return true, nil
}

func (e *EntityCache) Set(c context.Context, key string, value any) error {
	if e == nil || e.client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed encoding cache key=%s with error=%w", key, err)
	}
	err = e.client.Set(c, key, raw, e.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed setting cache key=%s with error=%w", key, err)
	}
	return nil
}

// Fill caches value only when key is absent, so a value read from the
// database never replaces a newer write or a tombstone left by Invalidate.
func (e *EntityCache) Fill(c context.Context, key string, value any) (bool, error) {
	if e == nil || e.client == nil {
		return false, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("failed encoding cache key=%s with error=%w", key, err)
	}
	filled, err := e.client.SetNX(c, key, raw, e.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed filling cache key=%s with error=%w", key, err)
	}
	return filled, nil
}

// Invalidate replaces keys with a tombstone that lives for INVALIDATION_TTL.
func (e *EntityCache) Invalidate(c context.Context, keys ...string) error {
	if e == nil || e.client == nil || len(keys) == 0 {
		return nil
	}
	_, err := e.client.Pipelined(c, func(p redis.Pipeliner) error {
		for _, key := range keys {
			p.Set(c, key, CACHE_TOMBSTONE, INVALIDATION_TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed invalidating cache keys=%v with error=%w", keys, err)
	}
	return nil
}
