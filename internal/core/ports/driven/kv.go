package driven

import (
	"context"
	"time"
)

// KVStore is the persistence contract for credential records and their
// indexes. Implementations range from an in-memory map to a durable
// database; the core treats them interchangeably.
//
// Keys written by the core:
//
//	token:<userId>      serialized UserCredential
//	email:<email>       raw userId string
//	oauthstate:<state>  pending authorization record, with TTL
type KVStore interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A non-zero ttl expires the entry;
	// zero means the entry never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether the key holds a live value.
	Exists(ctx context.Context, key string) (bool, error)

	// Keys returns all live keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
