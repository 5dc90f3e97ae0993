package tenancy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/infrastructure/persistence/redis"
	apperrors "casino-platform-api/pkg/errors"
	"casino-platform-api/pkg/logger"
	"casino-platform-api/pkg/metrics"
)

// 解析来源标签，用于日志与指标
const (
	SourceCode = "code"
	SourceHost = "host"
)

// Directory 租户目录的权威查询接口
type Directory interface {
	GetByCode(ctx context.Context, tenantCode string) (*entity.Domain, error)
	GetByHostname(ctx context.Context, hostname string) (*entity.Domain, error)
}

// Cache 租户身份缓存接口
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ResolverConfig 解析器配置
type ResolverConfig struct {
	// IdentityTTL 租户身份缓存时长
	IdentityTTL time.Duration
	// ResolveTimeout 单次解析的总时间上限，超时按未知租户拒绝
	ResolveTimeout time.Duration
}

// Resolver 租户解析器
// 优先按请求头中的租户编码解析，缺失时回退到规范化主机名
// 同一 key 的并发缓存未命中通过 singleflight 合并为一次目录查询
type Resolver struct {
	directory Directory
	cache     Cache
	cfg       ResolverConfig
	group     singleflight.Group
}

// NewResolver 创建租户解析器
func NewResolver(directory Directory, cache Cache, cfg ResolverConfig) *Resolver {
	if cfg.IdentityTTL <= 0 {
		cfg.IdentityTTL = 30 * time.Minute
	}
	if cfg.ResolveTimeout <= 0 {
		cfg.ResolveTimeout = 2 * time.Second
	}
	return &Resolver{
		directory: directory,
		cache:     cache,
		cfg:       cfg,
	}
}

// Resolve 将请求凭据解析为租户
// tenantCode 为空时使用 hostHeader，两者都无法确定租户则解析失败
// 解析成功后执行状态门禁：active 放行，maintenance 与其余非活跃状态分别拒绝
func (r *Resolver) Resolve(ctx context.Context, tenantCode, hostHeader string) (*entity.Domain, error) {
	start := time.Now()

	var (
		domain *entity.Domain
		source string
		err    error
	)

	switch {
	case tenantCode != "":
		source = SourceCode
		domain, err = r.resolveOnce(ctx, redis.KeyTenantByCode(tenantCode), func(ctx context.Context) (*entity.Domain, error) {
			return r.directory.GetByCode(ctx, tenantCode)
		})
	default:
		source = SourceHost
		host := NormalizeHost(hostHeader)
		if host == "" {
			metrics.TenantResolutionsTotal.WithLabelValues(source, "not_found").Inc()
			return nil, apperrors.ErrTenantNotFound
		}
		domain, err = r.resolveOnce(ctx, redis.KeyTenantByHost(host), func(ctx context.Context) (*entity.Domain, error) {
			return r.directory.GetByHostname(ctx, host)
		})
	}
	metrics.TenantResolutionDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			// 解析超时按未知租户处理：宁可拒绝合法请求，也不能放行到错误租户
			logger.Warn(ctx, "tenant resolution timed out, failing closed",
				slog.String("source", source),
				slog.Duration("timeout", r.cfg.ResolveTimeout))
			metrics.TenantResolutionsTotal.WithLabelValues(source, "timeout").Inc()
			return nil, apperrors.ErrTenantNotFound
		}
		if errors.Is(err, apperrors.ErrTenantNotFound) {
			metrics.TenantResolutionsTotal.WithLabelValues(source, "not_found").Inc()
			return nil, apperrors.ErrTenantNotFound
		}
		metrics.TenantResolutionsTotal.WithLabelValues(source, "error").Inc()
		return nil, fmt.Errorf("failed to resolve tenant: %w", err)
	}

	switch domain.Status {
	case entity.DomainStatusActive:
		metrics.TenantResolutionsTotal.WithLabelValues(source, "resolved").Inc()
		return domain, nil
	case entity.DomainStatusMaintenance:
		metrics.TenantResolutionsTotal.WithLabelValues(source, "maintenance").Inc()
		return nil, apperrors.ErrTenantMaintenance.WithDetail(domain.TenantCode)
	default:
		metrics.TenantResolutionsTotal.WithLabelValues(source, "inactive").Inc()
		return nil, apperrors.ErrTenantInactive.WithDetail(domain.TenantCode)
	}
}

// resolveOnce 先查缓存，未命中时经 singleflight 回源查目录并写回缓存
// 回源使用与请求分离的 context，避免首个请求取消导致同批等待者全部失败
func (r *Resolver) resolveOnce(ctx context.Context, key string, load func(context.Context) (*entity.Domain, error)) (*entity.Domain, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ResolveTimeout)
	defer cancel()

	var cached entity.Domain
	if err := r.cache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		logger.Warn(ctx, "tenant cache read failed, falling back to directory",
			slog.String("key", key), slog.Any("error", err))
	}

	ch := r.group.DoChan(key, func() (interface{}, error) {
		loadCtx, loadCancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.ResolveTimeout)
		defer loadCancel()

		domain, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		if domain == nil {
			return nil, apperrors.ErrTenantNotFound
		}
		if err := r.cache.Set(loadCtx, key, domain, r.cfg.IdentityTTL); err != nil {
			logger.Warn(loadCtx, "failed to cache tenant identity",
				slog.String("key", key), slog.Any("error", err))
		}
		return domain, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*entity.Domain), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// NormalizeHost 规范化主机名：去除端口与末尾点号并转小写
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	host = strings.TrimSuffix(host, ".")
	return strings.ToLower(host)
}
