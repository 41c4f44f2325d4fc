package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// processing marks a key whose response is still being computed.
const processingPlaceholder = "processing"

// IdempotencyStore implements usecase.IdempotencyStore on Redis.
//
// A new key is first locked with a placeholder so concurrent requests
// carrying the same key cannot both execute. The final response later
// replaces the placeholder via Update.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "idempotency:",
	}
}

// CheckAndSet returns the cached response for key when one exists. For
// an unseen key it stores response, or a placeholder when response is
// nil, and reports the key as new.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if err == nil {
		return true, existing, nil
	}
	if !errors.Is(err, redis.Nil) {
		return false, nil, err
	}

	if response != nil {
		if err := s.client.Set(ctx, fullKey, response, ttl).Err(); err != nil {
			return false, nil, err
		}
		return false, nil, nil
	}

	set, err := s.client.SetNX(ctx, fullKey, processingPlaceholder, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if !set {
		// Lost the race; surface whatever the winner stored.
		existing, err := s.client.Get(ctx, fullKey).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return false, nil, err
		}
		return true, existing, nil
	}

	return false, nil, nil
}

// Update replaces the placeholder with the final response.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, response, ttl).Err()
}
