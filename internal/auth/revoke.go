package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList records token IDs that must be rejected before their
// natural expiry. Entries may be dropped once the associated TTL passes.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const revocationKeyPrefix = "wardops:revoked:"

// RedisRevocationList stores revoked token IDs in Redis with a per-entry
// TTL, so the set stays bounded by the refresh token lifetime.
type RedisRevocationList struct {
	client *redis.Client
}

func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

func (l *RedisRevocationList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return l.client.Set(ctx, revocationKeyPrefix+tokenID, "1", ttl).Err()
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.client.Exists(ctx, revocationKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryRevocationList is a process-local fallback for single-instance
// deployments and tests.
type MemoryRevocationList struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (l *MemoryRevocationList) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expires[tokenID] = l.now().Add(ttl)
	l.sweepLocked()
	return nil
}

func (l *MemoryRevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	until, ok := l.expires[tokenID]
	if !ok {
		return false, nil
	}
	if l.now().After(until) {
		delete(l.expires, tokenID)
		return false, nil
	}
	return true, nil
}

func (l *MemoryRevocationList) sweepLocked() {
	now := l.now()
	for id, until := range l.expires {
		if now.After(until) {
			delete(l.expires, id)
		}
	}
}
