package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTokenCache_NilRedis 没有 Redis 时缓存静默退化为全 miss
func TestTokenCache_NilRedis(t *testing.T) {
	cache := NewTokenCache(nil, nil, 0)
	ctx := context.Background()

	claims, hit, err := cache.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, claims)

	// Set 同样是 no-op
	require.NoError(t, cache.Set(ctx, "token", &Claims{UserID: 1}))
}

// TestTokenCache_KeyStable 同一个 token 的缓存 key 稳定且带节点前缀
func TestTokenCache_KeyStable(t *testing.T) {
	ring := NewHashRing([]string{"n1", "n2"}, 10)
	cache := NewTokenCache(nil, ring, 0)

	k1 := cache.cacheKey("token-x")
	k2 := cache.cacheKey("token-x")
	assert.Equal(t, k1, k2)
	assert.Contains(t, k1, "auth:jwt:")

	assert.NotEqual(t, k1, cache.cacheKey("token-y"))
}
