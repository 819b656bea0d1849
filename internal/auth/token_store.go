package auth

import (
	"context"
	"time"

	"github.com/yukikurage/todo-management-api/internal/cache"
)

const revokedTokenKeyPrefix = "revoked:access_token:"

// TokenStoreInterface defines the interface for token revocation.
type TokenStoreInterface interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

// TokenStore keeps revoked token IDs in redis until the token would have
// expired anyway.
type TokenStore struct {
	cache *cache.Client
	now   func() time.Time
}

var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store. A nil cache disables revocation.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache, now: time.Now}
}

// Revoke blacklists tokenID until expiresAt. Already expired tokens are ignored.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsRevoked reports whether tokenID was revoked. Redis failures report false.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) bool {
	return s.cache.Exists(ctx, revokedTokenKeyPrefix+tokenID)
}
