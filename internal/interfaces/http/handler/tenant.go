// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"casino-platform-api/internal/interfaces/http/dto"
	"casino-platform-api/internal/tenancy"
)

// TenantHandler 当前租户处理器
// 只暴露请求上下文对应租户自己的信息，不接受任何租户 ID 入参
type TenantHandler struct{}

// NewTenantHandler 创建当前租户处理器
func NewTenantHandler() *TenantHandler {
	return &TenantHandler{}
}

// GetCurrentDomain 获取当前租户信息
// @Summary 获取当前租户资料
// @Description 返回请求上下文对应租户的详细信息
// @Tags Tenant
// @Produce json
// @Success 200 {object} dto.Response[dto.DomainResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/tenant/current [get]
func (h *TenantHandler) GetCurrentDomain(c *gin.Context) {
	rc, err := tenancy.FromContext(c.Request.Context())
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.ToDomainResponse(rc.Domain()))
}
