package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/identitysvc/domain"
)

// VerificationStoreImpl implements domain.VerificationStore using Redis
// keys that expire with the resend window.
type VerificationStoreImpl struct {
	client redis.Cmdable
	prefix string
}

// NewVerificationStore creates a new Redis-backed verification store
func NewVerificationStore(client redis.Cmdable) domain.VerificationStore {
	return &VerificationStoreImpl{
		client: client,
		prefix: "verify:",
	}
}

// Acquire implements domain.VerificationStore
func (s *VerificationStoreImpl) Acquire(ctx context.Context, key string, window time.Duration) (bool, time.Duration, error) {
	fullKey := s.prefix + key

	ok, err := s.client.SetNX(ctx, fullKey, time.Now().Unix(), window).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to reserve %s: %w", fullKey, err)
	}
	if ok {
		return true, 0, nil
	}

	ttl, err := s.client.TTL(ctx, fullKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to read ttl of %s: %w", fullKey, err)
	}
	// A key without expiry should never exist here; treat it as a full window
	if ttl < 0 {
		ttl = window
	}
	return false, ttl, nil
}

// Release implements domain.VerificationStore
func (s *VerificationStoreImpl) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
