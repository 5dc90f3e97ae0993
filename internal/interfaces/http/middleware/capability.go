// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/tenancy"
)

// RequireCapability 能力检查中间件
// 从租户上下文读取操作者能力，缺失指定能力即返回 403
// 必须挂在 Tenant 中间件之后，上下文缺失视为服务端编程错误
func RequireCapability(cap entity.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc, err := tenancy.FromContext(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":     500,
				"message":  "tenant context missing",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		if !rc.Capabilities().Has(cap) {
			abortForbidden(c, "capability required: "+string(cap))
			return
		}

		c.Next()
	}
}

// HasCapability 检查当前请求是否持有指定能力
func HasCapability(c *gin.Context, cap entity.Capability) bool {
	rc, err := tenancy.FromContext(c.Request.Context())
	if err != nil {
		return false
	}
	return rc.Capabilities().Has(cap)
}

// abortForbidden 终止请求并返回 403
func abortForbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"code":     403,
		"message":  msg,
		"trace_id": c.GetString("trace_id"),
	})
}
