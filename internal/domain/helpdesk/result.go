package helpdesk

import "time"

// AggregateResult is what every fan-out returns. Items holds only entities
// from backends that succeeded; each failed backend contributes exactly one
// entry to Errors. Zero items with non-empty errors is a normal result, not
// a failure — callers decide how to surface it.
type AggregateResult[T any] struct {
	Items  []T         `json:"items"`
	Errors []ErrorCode `json:"errors"`
}

// CacheEntry wraps an AggregateResult as stored in the shared cache, keyed
// by (user, request kind). Overwritten on every successful refresh; expires
// naturally via the store TTL, never deleted explicitly.
type CacheEntry[T any] struct {
	Value    AggregateResult[T] `json:"value"`
	StoredAt time.Time          `json:"stored_at"`
	TTL      time.Duration      `json:"ttl"`
}
