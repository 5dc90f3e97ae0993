// Package tenancy 提供租户解析与请求级租户上下文
package tenancy

import (
	"context"

	apperrors "casino-platform-api/pkg/errors"
	"casino-platform-api/internal/domain/entity"
)

// ctxKey 请求上下文在 context.Context 中的私有键
type ctxKey struct{}

// RequestContext 请求级租户上下文
// 在租户解析成功后创建一次，之后只读传递，不允许中途修改
type RequestContext struct {
	domain        *entity.Domain
	correlationID string
	actor         string
	capabilities  entity.CapabilitySet
}

// NewRequestContext 创建请求级租户上下文
func NewRequestContext(domain *entity.Domain, correlationID, actor string, capabilities entity.CapabilitySet) *RequestContext {
	if capabilities == nil {
		capabilities = entity.CapabilitySet{}
	}
	return &RequestContext{
		domain:        domain,
		correlationID: correlationID,
		actor:         actor,
		capabilities:  capabilities,
	}
}

// Domain 返回已解析的租户
func (rc *RequestContext) Domain() *entity.Domain {
	return rc.domain
}

// DomainID 返回当前租户 ID
func (rc *RequestContext) DomainID() int64 {
	return rc.domain.DomainID
}

// TenantCode 返回当前租户编码
func (rc *RequestContext) TenantCode() string {
	return rc.domain.TenantCode
}

// CorrelationID 返回请求关联 ID
func (rc *RequestContext) CorrelationID() string {
	return rc.correlationID
}

// Actor 返回操作者标识
func (rc *RequestContext) Actor() string {
	return rc.actor
}

// Capabilities 返回操作者能力集合
func (rc *RequestContext) Capabilities() entity.CapabilitySet {
	return rc.capabilities
}

// WithRequestContext 将租户上下文注入 context.Context
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// FromContext 从 context.Context 提取租户上下文
// 缺失即返回 ErrTenantContextMissing，绝不回退到任何默认租户
func FromContext(ctx context.Context) (*RequestContext, error) {
	rc, ok := ctx.Value(ctxKey{}).(*RequestContext)
	if !ok || rc == nil || rc.domain == nil {
		return nil, apperrors.ErrTenantContextMissing
	}
	return rc, nil
}

// DomainIDFromContext 提取当前租户 ID 的便捷方法
func DomainIDFromContext(ctx context.Context) (int64, error) {
	rc, err := FromContext(ctx)
	if err != nil {
		return 0, err
	}
	return rc.DomainID(), nil
}
