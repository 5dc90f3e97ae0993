// Package redis 提供 Redis 缓存实现
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"casino-platform-api/pkg/metrics"
)

var cacheTracer = tracer

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("cache miss")

// 缓存键命名空间（格式跨实现保持稳定）
const (
	kindTenantByCode = "tenant-by-code"
	kindTenantByHost = "tenant-by-host"
	kindProperty     = "property"
)

// KeyTenantByCode 构建租户码缓存键
func KeyTenantByCode(code string) string {
	return fmt.Sprintf("%s:%s", kindTenantByCode, code)
}

// KeyTenantByHost 构建主机名缓存键
func KeyTenantByHost(host string) string {
	return fmt.Sprintf("%s:%s", kindTenantByHost, host)
}

// KeyProperty 构建租户配置缓存键
func KeyProperty(domainID int64, name string) string {
	return fmt.Sprintf("%s:%d:%s", kindProperty, domainID, name)
}

// keyKind 提取键的命名空间种类，用于指标标签
func keyKind(key string) string {
	if idx := strings.IndexByte(key, ':'); idx > 0 {
		return key[:idx]
	}
	return "unknown"
}

// TenantCache 租户缓存
// cache-aside：读时回填，写路径先写存储再显式失效，从不原地更新
type TenantCache struct {
	client *Client
}

// NewTenantCache 创建租户缓存
func NewTenantCache(client *Client) *TenantCache {
	return &TenantCache{client: client}
}

// Get 获取缓存值，未命中返回 ErrCacheMiss
func (c *TenantCache) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := cacheTracer.Start(ctx, "cache.Get",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	val, err := c.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.SetAttributes(attribute.Bool("cache.hit", false))
			metrics.TenantCacheMissesTotal.WithLabelValues(keyKind(key)).Inc()
			return nil, ErrCacheMiss
		}
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Bool("cache.hit", true))
	metrics.TenantCacheHitsTotal.WithLabelValues(keyKind(key)).Inc()
	return val, nil
}

// GetJSON 获取缓存值并反序列化
func (c *TenantCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Set 设置缓存值
func (c *TenantCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	ctx, span := cacheTracer.Start(ctx, "cache.Set",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.Int64("cache.ttl_ms", ttl.Milliseconds()),
		))
	defer span.End()

	bytes, err := json.Marshal(value)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.client.rdb.Set(ctx, key, bytes, ttl).Err()
}

// Invalidate 显式失效缓存键
// 管理侧变更后同步调用，保证条目最多陈旧一个变更周期
func (c *TenantCache) Invalidate(ctx context.Context, keys ...string) error {
	ctx, span := cacheTracer.Start(ctx, "cache.Invalidate",
		trace.WithAttributes(attribute.Int("cache.key_count", len(keys))))
	defer span.End()

	if len(keys) == 0 {
		return nil
	}

	for _, key := range keys {
		metrics.TenantCacheInvalidationsTotal.WithLabelValues(keyKind(key)).Inc()
	}

	if err := c.client.rdb.Del(ctx, keys...).Err(); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// InvalidateDomain 失效某租户域的身份缓存条目
// 状态或主机名变更后调用，code 与全部 host 键一并失效
func (c *TenantCache) InvalidateDomain(ctx context.Context, tenantCode string, hostnames []string) error {
	keys := make([]string, 0, len(hostnames)+1)
	keys = append(keys, KeyTenantByCode(tenantCode))
	for _, host := range hostnames {
		keys = append(keys, KeyTenantByHost(host))
	}
	return c.Invalidate(ctx, keys...)
}
