// Package router 提供 HTTP 路由配置
package router

import (
	"casino-platform-api/internal/config"
	"casino-platform-api/internal/infrastructure/persistence/redis"
	"casino-platform-api/internal/interfaces/http/handler"
	"casino-platform-api/internal/interfaces/http/middleware"
	"casino-platform-api/internal/property"
	"casino-platform-api/internal/tenancy"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由所需的全部处理器
type Handlers struct {
	Health   *handler.HealthHandler
	Admin    *handler.AdminHandler
	Tenant   *handler.TenantHandler
	Property *handler.PropertyHandler
	Player   *handler.PlayerHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	resolver *tenancy.Resolver
	limiter  *redis.RateLimiter
	props    *property.Resolver
	handlers Handlers
}

// New 创建新的路由器
func New(cfg *config.Config, resolver *tenancy.Resolver, limiter *redis.RateLimiter, props *property.Resolver, handlers Handlers) *Router {
	// 设置 Gin 模式
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	r := &Router{
		engine:   engine,
		cfg:      cfg,
		resolver: resolver,
		limiter:  limiter,
		props:    props,
		handlers: handlers,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置全局中间件
func (r *Router) setupMiddleware() {
	// 基础中间件
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	// CORS 中间件
	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	// 追踪中间件
	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	// 指标中间件
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	// 认证中间件
	r.engine.Use(middleware.Auth(middleware.AuthConfig{
		Secret:    r.cfg.Security.JWT.Secret,
		Issuer:    r.cfg.Security.JWT.Issuer,
		SkipPaths: middleware.DefaultSkipPaths,
		Enabled:   r.cfg.Security.JWT.Enabled,
	}))
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	// 系统端点不经过租户解析
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	// Prometheus 指标端点
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// 业务路由全部挂在租户解析之后
	v1 := r.engine.Group("/v1")
	v1.Use(middleware.Tenant(r.resolver, middleware.TenantConfig{
		HeaderName: r.cfg.Tenancy.HeaderName,
	}))
	v1.Use(middleware.RequestLog(middleware.RequestLogConfig{
		Enabled:   true,
		SkipPaths: middleware.DefaultRequestLogSkipPaths,
	}))
	v1.Use(middleware.RateLimit(middleware.RateLimitConfig{Enabled: true}, r.limiter, r.props))

	RegisterV1Routes(v1, r.handlers)
}
