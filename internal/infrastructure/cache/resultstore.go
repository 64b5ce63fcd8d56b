// Package cache provides the Redis-backed store for aggregated helpdesk
// results. The store is shared by all service instances and is the single
// source of truth for the current cached value of a key.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"deskhub/internal/domain/helpdesk"
)

// ResultStore persists CacheEntry values as JSON under prefix+key with the
// configured TTL. Writes are unconditional overwrites: overlapping refreshes
// are prevented upstream by the in-flight guard, not by store-level locking.
type ResultStore[T any] struct {
	client *redis.Client
	prefix string // e.g. "deskhub:helpdesk:tasks:"
	ttl    time.Duration
}

// NewResultStore creates a store namespaced by prefix with the given TTL.
func NewResultStore[T any](client *redis.Client, prefix string, ttl time.Duration) *ResultStore[T] {
	return &ResultStore[T]{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get returns the entry stored under key, or (nil, nil) when the key is
// absent or expired — a miss is not an error.
func (s *ResultStore[T]) Get(ctx context.Context, key string) (*helpdesk.CacheEntry[T], error) {
	data, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var entry helpdesk.CacheEntry[T]
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}
	return &entry, nil
}

// Set overwrites the entry under key and re-arms its TTL, returning the
// stored entry.
func (s *ResultStore[T]) Set(ctx context.Context, key string, value helpdesk.AggregateResult[T]) (*helpdesk.CacheEntry[T], error) {
	entry := helpdesk.CacheEntry[T]{
		Value:    value,
		StoredAt: time.Now().UTC(),
		TTL:      s.ttl,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to write cache entry: %w", err)
	}
	return &entry, nil
}
