// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"casino-platform-api/internal/domain/entity"
)

// AuditRepository 审计存储接口
// 仅追加：接口刻意不提供更新或删除操作
type AuditRepository interface {
	// Append 写入单条审计记录
	Append(ctx context.Context, record *entity.AuditRecord) error

	// AppendBatch 批量写入审计记录
	AppendBatch(ctx context.Context, records []*entity.AuditRecord) error

	// ListByDomain 按租户域查询审计记录
	ListByDomain(ctx context.Context, domainID int64, pagination Pagination) (*PagedResult[*entity.AuditRecord], error)
}
