// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"casino-platform-api/internal/interfaces/http/dto"
	"casino-platform-api/internal/property"
	"casino-platform-api/internal/tenancy"
)

// PropertyHandler 属性解析处理器
type PropertyHandler struct {
	props *property.Resolver
}

// NewPropertyHandler 创建属性解析处理器
func NewPropertyHandler(props *property.Resolver) *PropertyHandler {
	return &PropertyHandler{props: props}
}

// GetProperty 解析当前租户的属性值
// @Summary 解析属性
// @Description 按 租户覆盖 > 全局值 > 内置默认值 的顺序解析
// @Tags Tenant
// @Produce json
// @Param name path string true "属性名"
// @Success 200 {object} dto.Response[dto.PropertyResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/tenant/properties/{name} [get]
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	ctx := c.Request.Context()

	rc, err := tenancy.FromContext(ctx)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	name := dto.BindPropertyName(c)
	value, err := h.props.Resolve(ctx, rc.DomainID(), name)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, &dto.PropertyResponse{Name: name, Value: value})
}
