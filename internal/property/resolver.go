package property

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"casino-platform-api/internal/audit"
	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/domain/repository"
	"casino-platform-api/internal/infrastructure/persistence/redis"
	"casino-platform-api/internal/tenancy"
	apperrors "casino-platform-api/pkg/errors"
	"casino-platform-api/pkg/logger"
	"casino-platform-api/pkg/metrics"
)

// 解析层级标签，用于指标
const (
	TierOverride = "override"
	TierGlobal   = "global"
	TierDefault  = "default"
)

// Cache 属性缓存接口
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// cachedProperty 缓存中的属性查询结果
// Found=false 表示该层确认不存在，负缓存避免反复回源
type cachedProperty struct {
	Found bool   `json:"found"`
	Value string `json:"value"`
}

// ResolverConfig 属性解析器配置
type ResolverConfig struct {
	// PropertyTTL 属性缓存时长
	PropertyTTL time.Duration
}

// Resolver 三层属性解析器
// 解析顺序固定：租户覆盖 > 全局值 > 内置默认值
type Resolver struct {
	repo     repository.PropertyRepository
	cache    Cache
	registry *Registry
	sink     *audit.Sink
	cfg      ResolverConfig
}

// NewResolver 创建属性解析器
func NewResolver(repo repository.PropertyRepository, cache Cache, registry *Registry, sink *audit.Sink, cfg ResolverConfig) *Resolver {
	if cfg.PropertyTTL <= 0 {
		cfg.PropertyTTL = 15 * time.Minute
	}
	return &Resolver{
		repo:     repo,
		cache:    cache,
		registry: registry,
		sink:     sink,
		cfg:      cfg,
	}
}

// Resolve 按层序解析属性的字符串值
// 未注册且三层均无值时返回 ErrPropertyResolution
func (r *Resolver) Resolve(ctx context.Context, domainID int64, name string) (string, error) {
	for _, tier := range r.tiers(domainID, name) {
		value, found, err := tier.load(ctx)
		if err != nil {
			return "", err
		}
		if found {
			metrics.PropertyResolutionsTotal.WithLabelValues(tier.label).Inc()
			return value, nil
		}
	}
	return "", apperrors.ErrPropertyResolution.WithDetail(name)
}

// GetString 解析字符串属性
func (r *Resolver) GetString(ctx context.Context, domainID int64, name string) (string, error) {
	return r.Resolve(ctx, domainID, name)
}

// GetInt 解析整型属性
// 某一层的值无法解析为整数时记录告警并继续尝试下一层，而不是报错
func (r *Resolver) GetInt(ctx context.Context, domainID int64, name string) (int64, error) {
	var result int64
	err := r.resolveTyped(ctx, domainID, name, func(raw string) error {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}

// GetBool 解析布尔属性，畸形值同样逐层回退
func (r *Resolver) GetBool(ctx context.Context, domainID int64, name string) (bool, error) {
	var result bool
	err := r.resolveTyped(ctx, domainID, name, func(raw string) error {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}

// GetJSON 解析 JSON 属性到 dest，畸形值逐层回退
func (r *Resolver) GetJSON(ctx context.Context, domainID int64, name string, dest interface{}) error {
	return r.resolveTyped(ctx, domainID, name, func(raw string) error {
		return json.Unmarshal([]byte(raw), dest)
	})
}

// Set 写入或更新租户覆盖值（domainID 为 GlobalDomainID 时写全局值）
// 顺序固定：先写库，再失效缓存，最后同步落审计
func (r *Resolver) Set(ctx context.Context, domainID int64, name, value string) error {
	if _, ok := r.registry.Lookup(name); !ok {
		return apperrors.ErrPropertyResolution.WithDetail(fmt.Sprintf("unknown property %q", name))
	}

	before, err := r.repo.Get(ctx, domainID, name)
	if err != nil {
		return fmt.Errorf("failed to load property before update: %w", err)
	}

	if err := r.repo.Set(ctx, domainID, name, value); err != nil {
		return fmt.Errorf("failed to set property: %w", err)
	}

	if err := r.cache.Invalidate(ctx, redis.KeyProperty(domainID, name)); err != nil {
		logger.Warn(ctx, "failed to invalidate property cache",
			slog.Int64("domain_id", domainID), slog.String("name", name), slog.Any("error", err))
	}

	record := entity.NewAuditRecord(entity.AuditEventPropertySet, r.actor(ctx)).
		WithTarget(name).
		WithChange(propertyPayload(before), entity.AuditPayload{"value": value})
	if domainID != entity.GlobalDomainID {
		record = record.WithDomain(domainID)
	}
	return r.sink.Record(ctx, record)
}

// Remove 删除租户覆盖值，使属性回落到下一层
func (r *Resolver) Remove(ctx context.Context, domainID int64, name string) error {
	before, err := r.repo.Get(ctx, domainID, name)
	if err != nil {
		return fmt.Errorf("failed to load property before removal: %w", err)
	}
	if before == nil {
		return nil
	}

	if err := r.repo.Remove(ctx, domainID, name); err != nil {
		return fmt.Errorf("failed to remove property: %w", err)
	}

	if err := r.cache.Invalidate(ctx, redis.KeyProperty(domainID, name)); err != nil {
		logger.Warn(ctx, "failed to invalidate property cache",
			slog.Int64("domain_id", domainID), slog.String("name", name), slog.Any("error", err))
	}

	record := entity.NewAuditRecord(entity.AuditEventPropertyRemoved, r.actor(ctx)).
		WithTarget(name).
		WithChange(propertyPayload(before), nil)
	if domainID != entity.GlobalDomainID {
		record = record.WithDomain(domainID)
	}
	return r.sink.Record(ctx, record)
}

// tier 单个解析层
type tier struct {
	label string
	load  func(ctx context.Context) (string, bool, error)
}

// tiers 返回按优先级排列的解析层
func (r *Resolver) tiers(domainID int64, name string) []tier {
	result := make([]tier, 0, 3)
	if domainID != entity.GlobalDomainID {
		result = append(result, tier{
			label: TierOverride,
			load: func(ctx context.Context) (string, bool, error) {
				return r.loadStored(ctx, domainID, name)
			},
		})
	}
	result = append(result, tier{
		label: TierGlobal,
		load: func(ctx context.Context) (string, bool, error) {
			return r.loadStored(ctx, entity.GlobalDomainID, name)
		},
	})
	result = append(result, tier{
		label: TierDefault,
		load: func(ctx context.Context) (string, bool, error) {
			def, ok := r.registry.Lookup(name)
			if !ok {
				return "", false, nil
			}
			return def.Default, true, nil
		},
	})
	return result
}

// loadStored 读取某一存储层的属性值，经缓存回源，负结果同样缓存
func (r *Resolver) loadStored(ctx context.Context, domainID int64, name string) (string, bool, error) {
	key := redis.KeyProperty(domainID, name)

	var cached cachedProperty
	if err := r.cache.GetJSON(ctx, key, &cached); err == nil {
		return cached.Value, cached.Found, nil
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		logger.Warn(ctx, "property cache read failed, falling back to store",
			slog.String("key", key), slog.Any("error", err))
	}

	prop, err := r.repo.Get(ctx, domainID, name)
	if err != nil {
		return "", false, fmt.Errorf("failed to load property: %w", err)
	}

	entry := cachedProperty{}
	if prop != nil {
		entry.Found = true
		entry.Value = prop.Value
	}
	if err := r.cache.Set(ctx, key, entry, r.cfg.PropertyTTL); err != nil {
		logger.Warn(ctx, "failed to cache property",
			slog.String("key", key), slog.Any("error", err))
	}
	return entry.Value, entry.Found, nil
}

// resolveTyped 按层序解析并做类型转换，转换失败的层视为缺失继续回退
func (r *Resolver) resolveTyped(ctx context.Context, domainID int64, name string, coerce func(string) error) error {
	for _, t := range r.tiers(domainID, name) {
		value, found, err := t.load(ctx)
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		if err := coerce(value); err != nil {
			logger.Warn(ctx, "malformed property value, falling through to next tier",
				slog.Int64("domain_id", domainID),
				slog.String("name", name),
				slog.String("tier", t.label),
				slog.Any("error", err))
			metrics.PropertyMalformedTotal.WithLabelValues(name).Inc()
			continue
		}
		metrics.PropertyResolutionsTotal.WithLabelValues(t.label).Inc()
		return nil
	}
	return apperrors.ErrPropertyResolution.WithDetail(name)
}

// actor 从租户上下文提取操作者，后台任务等无上下文场景记为 system
func (r *Resolver) actor(ctx context.Context) string {
	if rc, err := tenancy.FromContext(ctx); err == nil && rc.Actor() != "" {
		return rc.Actor()
	}
	return "system"
}

// propertyPayload 将存量属性转为审计负载，不存在时为 nil
func propertyPayload(p *entity.Property) entity.AuditPayload {
	if p == nil {
		return nil
	}
	return entity.AuditPayload{"value": p.Value}
}
