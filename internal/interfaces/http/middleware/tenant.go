// Package middleware 提供 HTTP 中间件
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/tenancy"
	apperrors "casino-platform-api/pkg/errors"
	"casino-platform-api/pkg/logger"
)

const (
	// TenantCodeHeader 请求显式指定租户的头
	TenantCodeHeader = "X-Tenant-Code"
	// TenantStatusHeader 响应回显的租户状态头
	TenantStatusHeader = "X-Tenant-Status"
)

// TenantConfig 租户中间件配置
type TenantConfig struct {
	// HeaderName 从 Header 中获取租户编码的字段名
	HeaderName string
}

// Tenant 租户解析中间件
// 每个请求先解析出租户，构建只读租户上下文后才进入业务处理
// 解析失败直接拒绝：未知租户 404、停用 403、维护中 503，绝无默认租户兜底
func Tenant(resolver *tenancy.Resolver, cfg TenantConfig) gin.HandlerFunc {
	if cfg.HeaderName == "" {
		cfg.HeaderName = TenantCodeHeader
	}

	return func(c *gin.Context) {
		tenantCode := c.GetHeader(cfg.HeaderName)
		domain, err := resolver.Resolve(c.Request.Context(), tenantCode, c.Request.Host)
		if err != nil {
			abortTenantError(c, err)
			return
		}

		caps := capabilitiesFromGin(c)
		rc := tenancy.NewRequestContext(domain, c.GetString("request_id"), c.GetString("actor"), caps)

		ctx := tenancy.WithRequestContext(c.Request.Context(), rc)
		ctx = logger.WithContext(ctx, logger.DomainIDKey, domain.DomainID)
		ctx = logger.WithContext(ctx, logger.TenantCodeKey, domain.TenantCode)
		c.Request = c.Request.WithContext(ctx)

		c.Set("domain_id", domain.DomainID)
		c.Set("tenant_code", domain.TenantCode)

		c.Header(TenantCodeHeader, domain.TenantCode)
		c.Header(TenantStatusHeader, string(domain.Status))

		c.Next()
	}
}

// capabilitiesFromGin 读取 Auth 中间件注入的能力列表
func capabilitiesFromGin(c *gin.Context) entity.CapabilitySet {
	v, ok := c.Get("capabilities")
	if !ok {
		return entity.CapabilitySet{}
	}
	names, ok := v.([]string)
	if !ok {
		return entity.CapabilitySet{}
	}
	return entity.NewCapabilitySet(names)
}

// abortTenantError 将租户解析错误映射为对外响应
func abortTenantError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"code":     apperrors.CodeInternalError,
			"message":  "internal server error",
			"trace_id": c.GetString("trace_id"),
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrTenantMaintenance):
		c.Header(TenantStatusHeader, string(entity.DomainStatusMaintenance))
	case errors.Is(err, apperrors.ErrTenantInactive):
		c.Header(TenantStatusHeader, string(entity.DomainStatusInactive))
	}

	c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{
		"code":     appErr.Code,
		"message":  appErr.Message,
		"trace_id": c.GetString("trace_id"),
	})
}

// DomainIDFromGin 从 Gin Context 中获取租户 ID
func DomainIDFromGin(c *gin.Context) int64 {
	return c.GetInt64("domain_id")
}

// TenantCodeFromGin 从 Gin Context 中获取租户编码
func TenantCodeFromGin(c *gin.Context) string {
	return c.GetString("tenant_code")
}
