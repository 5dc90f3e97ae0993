// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"time"

	"github.com/google/wire"

	"casino-platform-api/internal/audit"
	"casino-platform-api/internal/config"
	"casino-platform-api/internal/domain/repository"
	"casino-platform-api/internal/infrastructure/persistence/postgres"
	"casino-platform-api/internal/infrastructure/persistence/redis"
	"casino-platform-api/internal/interfaces/http/handler"
	"casino-platform-api/internal/interfaces/http/router"
	"casino-platform-api/internal/isolation"
	"casino-platform-api/internal/property"
	"casino-platform-api/internal/tenancy"
)

// DataLayer 数据层依赖容器（用于 bootstrap 等离线任务）
type DataLayer struct {
	PgClient     *postgres.Client
	TxManager    *postgres.TxManager
	DomainRepo   *postgres.DomainRepository
	PropertyRepo *postgres.PropertyRepository
	PlayerRepo   *postgres.PlayerRepository
	AuditRepo    *postgres.AuditRepository
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewDomainRepository,
	postgres.NewPropertyRepository,
	postgres.NewPlayerRepository,
	postgres.NewAuditRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	// 接口绑定
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.DomainRepository), new(*postgres.DomainRepository)),
	wire.Bind(new(repository.PropertyRepository), new(*postgres.PropertyRepository)),
	wire.Bind(new(repository.PlayerRepository), new(*postgres.PlayerRepository)),
	wire.Bind(new(repository.AuditRepository), new(*postgres.AuditRepository)),
	wire.Bind(new(tenancy.Directory), new(*postgres.DomainRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewTenantCache,
	redis.NewRateLimiter,
	wire.Bind(new(tenancy.Cache), new(*redis.TenantCache)),
	wire.Bind(new(property.Cache), new(*redis.TenantCache)),
)

// EngineSet 租户引擎提供者集合
var EngineSet = wire.NewSet(
	ProvideAuditSink,
	ProvideTenancyResolver,
	property.DefaultRegistry,
	ProvidePropertyResolver,
	isolation.NewEnforcer,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewHealthHandler,
	handler.NewAdminHandler,
	handler.NewTenantHandler,
	handler.NewPropertyHandler,
	handler.NewPlayerHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideAuditSink 提供审计落库器
func ProvideAuditSink(cfg *config.Config, repo repository.AuditRepository) (*audit.Sink, func()) {
	sink := audit.NewSink(repo, audit.Config{
		BufferSize:     cfg.Audit.BufferSize,
		FlushInterval:  cfg.Audit.FlushInterval,
		FlushBatchSize: cfg.Audit.FlushBatchSize,
	})
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = sink.Close(ctx)
	}
	return sink, cleanup
}

// ProvideTenancyResolver 提供租户解析器
func ProvideTenancyResolver(cfg *config.Config, directory tenancy.Directory, cache tenancy.Cache) *tenancy.Resolver {
	return tenancy.NewResolver(directory, cache, tenancy.ResolverConfig{
		IdentityTTL:    cfg.Tenancy.IdentityTTL,
		ResolveTimeout: cfg.Tenancy.ResolveTimeout,
	})
}

// ProvidePropertyResolver 提供属性解析器
func ProvidePropertyResolver(cfg *config.Config, repo repository.PropertyRepository, cache property.Cache, registry *property.Registry, sink *audit.Sink) *property.Resolver {
	return property.NewResolver(repo, cache, registry, sink, property.ResolverConfig{
		PropertyTTL: cfg.Tenancy.PropertyTTL,
	})
}
