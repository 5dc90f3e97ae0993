// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/domain/repository"
)

// AuditRepository 审计存储实现
// 仅提供追加与查询，实现上不存在任何更新或删除路径
type AuditRepository struct {
	client *Client
}

// NewAuditRepository 创建审计存储
func NewAuditRepository(client *Client) *AuditRepository {
	return &AuditRepository{client: client}
}

var _ repository.AuditRepository = (*AuditRepository)(nil)

// Append 写入单条审计记录
func (r *AuditRepository) Append(ctx context.Context, record *entity.AuditRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.AuditRepository.Append")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(record).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

// AppendBatch 批量写入审计记录
func (r *AuditRepository) AppendBatch(ctx context.Context, records []*entity.AuditRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.AuditRepository.AppendBatch")
	defer span.End()

	if len(records) == 0 {
		return nil
	}

	db := getDB(ctx, r.client.db)
	if err := db.CreateInBatches(records, 100).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to append audit batch: %w", err)
	}
	return nil
}

// ListByDomain 按租户域查询审计记录
func (r *AuditRepository) ListByDomain(ctx context.Context, domainID int64, pagination repository.Pagination) (*repository.PagedResult[*entity.AuditRecord], error) {
	ctx, span := tracer.Start(ctx, "postgres.AuditRepository.ListByDomain")
	defer span.End()

	db := getDB(ctx, r.client.db)

	var total int64
	if err := db.Model(&entity.AuditRecord{}).Where("domain_id = ?", domainID).Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count audit records: %w", err)
	}

	var records []*entity.AuditRecord
	if err := db.Where("domain_id = ?", domainID).
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&records).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}

	return repository.NewPagedResult(records, total, pagination), nil
}
