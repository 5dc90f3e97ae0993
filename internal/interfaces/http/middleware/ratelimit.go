// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"casino-platform-api/internal/infrastructure/persistence/redis"
	"casino-platform-api/internal/property"
	"casino-platform-api/internal/tenancy"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// Enabled 是否启用限流
	Enabled bool
}

// RateLimit 按租户限流中间件
// 每分钟请求上限由属性 maxRequestsPerMinute 决定，租户可覆盖全局值
// 限流器或属性解析故障时放行，避免基础设施抖动放大为业务不可用
func RateLimit(cfg RateLimitConfig, limiter *redis.RateLimiter, props *property.Resolver) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		rc, err := tenancy.FromContext(c.Request.Context())
		if err != nil {
			c.Next()
			return
		}

		limit, err := props.GetInt(c.Request.Context(), rc.DomainID(), property.PropMaxRequestsPerMinute)
		if err != nil || limit <= 0 {
			c.Next()
			return
		}

		key := redis.BuildDomainRateLimitKey(rc.DomainID(), c.FullPath())
		allowed, err := limiter.Allow(c.Request.Context(), key, int(limit), time.Minute)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":     429,
				"message":  "rate limit exceeded",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}
