// Package isolation 提供租户隔离边界的强制执行
package isolation

import (
	"context"
	"fmt"
	"log/slog"

	"casino-platform-api/internal/audit"
	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/tenancy"
	apperrors "casino-platform-api/pkg/errors"
	"casino-platform-api/pkg/logger"
	"casino-platform-api/pkg/metrics"
)

// Decision 单次访问检查的结论
type Decision struct {
	// Allowed 是否放行
	Allowed bool
	// CrossTenant 是否为凭特权放行的跨租户访问
	CrossTenant bool
	// Reason 拒绝或特权放行的原因说明
	Reason string
}

// Enforcer 隔离边界执行器
// 每个决策都会留下审计：拒绝与跨租户放行同步落库，同租户放行异步批量落库
type Enforcer struct {
	sink *audit.Sink
}

// NewEnforcer 创建隔离边界执行器
func NewEnforcer(sink *audit.Sink) *Enforcer {
	return &Enforcer{sink: sink}
}

// CheckAccess 校验当前请求是否允许访问目标租户的数据
// 上下文缺失视为编程错误直接报错，绝不回退放行
// 跨租户访问仅在持有 cross_tenant:admin 能力时放行，且同步落审计
func (e *Enforcer) CheckAccess(ctx context.Context, targetDomainID int64) (Decision, error) {
	rc, err := tenancy.FromContext(ctx)
	if err != nil {
		metrics.EnforcementDecisionsTotal.WithLabelValues("missing_context").Inc()
		return Decision{}, err
	}

	if rc.DomainID() == targetDomainID {
		metrics.EnforcementDecisionsTotal.WithLabelValues("allow").Inc()
		e.sink.RecordAsync(entity.NewAuditRecord(entity.AuditEventAccessAllowed, rc.Actor()).
			WithDomain(rc.DomainID()).
			WithTarget(fmt.Sprintf("domain:%d", targetDomainID)))
		return Decision{Allowed: true}, nil
	}

	if rc.Capabilities().Has(entity.CapabilityCrossTenantAdmin) {
		metrics.EnforcementDecisionsTotal.WithLabelValues("allow_cross_tenant").Inc()
		decision := Decision{Allowed: true, CrossTenant: true, Reason: "cross-tenant admin capability"}
		record := entity.NewAuditRecord(entity.AuditEventCrossTenantAccess, rc.Actor()).
			WithDomain(rc.DomainID()).
			WithTarget(fmt.Sprintf("domain:%d", targetDomainID)).
			WithReason(decision.Reason)
		if err := e.sink.Record(ctx, record); err != nil {
			return Decision{}, fmt.Errorf("failed to audit cross-tenant access: %w", err)
		}
		return decision, nil
	}

	metrics.EnforcementDecisionsTotal.WithLabelValues("deny").Inc()
	decision := Decision{Reason: "tenant boundary violation"}
	logger.Warn(ctx, "cross-tenant access denied",
		slog.Int64("domain_id", rc.DomainID()),
		slog.Int64("target_domain_id", targetDomainID),
		slog.String("actor", rc.Actor()))

	record := entity.NewAuditRecord(entity.AuditEventAccessDenied, rc.Actor()).
		WithDomain(rc.DomainID()).
		WithTarget(fmt.Sprintf("domain:%d", targetDomainID)).
		WithReason(decision.Reason)
	if err := e.sink.Record(ctx, record); err != nil {
		return Decision{}, fmt.Errorf("failed to audit access denial: %w", err)
	}
	return decision, apperrors.ErrCrossTenantAccessDenied
}

// CheckChildWrite 校验父子实体写入的租户一致性
// 子实体必须继承父实体的租户归属，不一致即拒绝并同步落审计
func (e *Enforcer) CheckChildWrite(ctx context.Context, parentDomainID, childDomainID int64) error {
	if _, err := e.CheckAccess(ctx, parentDomainID); err != nil {
		return err
	}
	if parentDomainID == childDomainID {
		return nil
	}

	rc, err := tenancy.FromContext(ctx)
	if err != nil {
		return err
	}
	metrics.EnforcementDecisionsTotal.WithLabelValues("deny").Inc()
	record := entity.NewAuditRecord(entity.AuditEventAccessDenied, rc.Actor()).
		WithDomain(rc.DomainID()).
		WithTarget(fmt.Sprintf("domain:%d", childDomainID)).
		WithReason(fmt.Sprintf("child domain %d does not match parent domain %d", childDomainID, parentDomainID))
	if err := e.sink.Record(ctx, record); err != nil {
		return fmt.Errorf("failed to audit domain mismatch: %w", err)
	}
	return apperrors.ErrDomainMismatch
}
