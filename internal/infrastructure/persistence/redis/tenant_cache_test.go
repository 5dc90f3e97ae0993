package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-platform-api/internal/domain/entity"
)

func newTestCache(t *testing.T) (*TenantCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewClientWithRedis(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	return NewTenantCache(client), mr
}

func TestKeyNamespace(t *testing.T) {
	assert.Equal(t, "tenant-by-code:lucky-ace", KeyTenantByCode("lucky-ace"))
	assert.Equal(t, "tenant-by-host:lucky.example.com", KeyTenantByHost("lucky.example.com"))
	assert.Equal(t, "property:7:maxPlayers", KeyProperty(7, "maxPlayers"))
}

func TestSetGetJSON(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	domain := entity.NewDomain("lucky-ace", "Lucky Ace", []string{"lucky.example.com"})
	domain.DomainID = 7
	require.NoError(t, cache.Set(ctx, KeyTenantByCode("lucky-ace"), domain, time.Minute))

	var got entity.Domain
	require.NoError(t, cache.GetJSON(ctx, KeyTenantByCode("lucky-ace"), &got))
	assert.Equal(t, int64(7), got.DomainID)
	assert.Equal(t, "lucky-ace", got.TenantCode)
}

func TestGetMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	var got entity.Domain
	err := cache.GetJSON(context.Background(), KeyTenantByCode("missing"), &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSetHonorsTTL(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, KeyProperty(7, "maxPlayers"), "250", time.Minute))
	mr.FastForward(2 * time.Minute)

	var got string
	err := cache.GetJSON(ctx, KeyProperty(7, "maxPlayers"), &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, KeyProperty(7, "maxPlayers"), "250", time.Minute))
	require.NoError(t, cache.Invalidate(ctx, KeyProperty(7, "maxPlayers")))

	var got string
	err := cache.GetJSON(ctx, KeyProperty(7, "maxPlayers"), &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestInvalidateDomain(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	domain := entity.NewDomain("lucky-ace", "Lucky Ace", []string{"a.example.com", "b.example.com"})
	require.NoError(t, cache.Set(ctx, KeyTenantByCode("lucky-ace"), domain, time.Minute))
	require.NoError(t, cache.Set(ctx, KeyTenantByHost("a.example.com"), domain, time.Minute))
	require.NoError(t, cache.Set(ctx, KeyTenantByHost("b.example.com"), domain, time.Minute))

	require.NoError(t, cache.InvalidateDomain(ctx, "lucky-ace", domain.Hostnames))

	var got entity.Domain
	assert.ErrorIs(t, cache.GetJSON(ctx, KeyTenantByCode("lucky-ace"), &got), ErrCacheMiss)
	assert.ErrorIs(t, cache.GetJSON(ctx, KeyTenantByHost("a.example.com"), &got), ErrCacheMiss)
	assert.ErrorIs(t, cache.GetJSON(ctx, KeyTenantByHost("b.example.com"), &got), ErrCacheMiss)
}
