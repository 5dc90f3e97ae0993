// Package middleware 提供 HTTP 中间件
package middleware

import (
	"time"

	"casino-platform-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogConfig 请求日志配置
type RequestLogConfig struct {
	// Enabled 是否启用请求日志
	Enabled bool
	// SkipPaths 跳过记录的路径
	SkipPaths []string
}

// RequestLog 请求日志中间件
// 记录每个请求的租户归属、状态码与耗时，用于问题排查与访问审计
func RequestLog(cfg RequestLogConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	skipMap := make(map[string]bool)
	for _, path := range cfg.SkipPaths {
		skipMap[path] = true
	}

	return func(c *gin.Context) {
		if skipMap[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		duration := time.Since(start)

		logger.Info(c.Request.Context(), "api request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", duration.Milliseconds(),
			"ip", c.ClientIP(),
			"domain_id", c.GetInt64("domain_id"),
			"tenant_code", c.GetString("tenant_code"),
			"actor", c.GetString("actor"),
			"request_id", c.GetString("request_id"),
			"body_size", c.Writer.Size(),
		)
	}
}

// DefaultRequestLogSkipPaths 默认跳过记录的路径
var DefaultRequestLogSkipPaths = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
}
