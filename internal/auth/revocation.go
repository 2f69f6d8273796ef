package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore tracks the jti values of logged-out tokens.  Revoke is
// idempotent and both methods must be safe under concurrent use.  The ttl
// passed to Revoke is how long the token would still be valid; entries are
// free to disappear after that since expiry rejects the token anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRevocations keeps the revocation set in a mutex-guarded map.  It is
// the fallback when no Redis server is configured and the implementation
// used by tests.
type MemoryRevocations struct {
	mu      sync.RWMutex
	entries map[string]time.Time // jti -> when the revoked token expires
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{entries: make(map[string]time.Time)}
}

// Revoke records the jti.  Revoking the same jti twice is a no-op.
func (s *MemoryRevocations) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jti] = time.Now().UTC().Add(ttl)
	return nil
}

// IsRevoked reports whether the jti has been revoked.
func (s *MemoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[jti]
	return ok, nil
}

// Sweep drops entries whose token expiry has passed and returns how many
// were removed.  Expired tokens are rejected on time alone, so removing
// their jti only bounds memory, it never changes validation results.
func (s *MemoryRevocations) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for jti, exp := range s.entries {
		if now.After(exp) {
			delete(s.entries, jti)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled.
func (s *MemoryRevocations) StartSweeper(ctx context.Context, every time.Duration) {
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				s.Sweep(now.UTC())
			}
		}
	}()
}

// RedisRevocations backs the revocation set with Redis so it survives
// process restarts and is shared between replicas.  Keys carry the token's
// remaining lifetime as TTL, which bounds memory without a sweeper.
type RedisRevocations struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisRevocations(rdb *redis.Client) *RedisRevocations {
	return &RedisRevocations{rdb: rdb, prefix: "revoked:"}
}

func (s *RedisRevocations) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token is already expired; keep the entry briefly so a validate
		// racing the revoke still sees it.
		ttl = time.Minute
	}
	return s.rdb.Set(ctx, s.prefix+jti, "1", ttl).Err()
}

func (s *RedisRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
