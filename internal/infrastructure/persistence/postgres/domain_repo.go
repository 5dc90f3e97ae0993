// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/domain/repository"
	apperrors "casino-platform-api/pkg/errors"
)

// DomainRepository 租户目录实现
type DomainRepository struct {
	client *Client
}

// NewDomainRepository 创建租户目录
func NewDomainRepository(client *Client) *DomainRepository {
	return &DomainRepository{client: client}
}

var _ repository.DomainRepository = (*DomainRepository)(nil)

// Create 创建租户域
func (r *DomainRepository) Create(ctx context.Context, domain *entity.Domain) error {
	ctx, span := tracer.Start(ctx, "postgres.DomainRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(domain).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create domain: %w", err)
	}
	return nil
}

// GetByID 根据 domain_id 获取租户域
func (r *DomainRepository) GetByID(ctx context.Context, domainID int64) (*entity.Domain, error) {
	ctx, span := tracer.Start(ctx, "postgres.DomainRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var domain entity.Domain
	if err := db.First(&domain, "domain_id = ?", domainID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get domain: %w", err)
	}
	return &domain, nil
}

// GetByCode 根据租户码获取租户域
func (r *DomainRepository) GetByCode(ctx context.Context, tenantCode string) (*entity.Domain, error) {
	ctx, span := tracer.Start(ctx, "postgres.DomainRepository.GetByCode")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var domain entity.Domain
	if err := db.First(&domain, "tenant_code = ?", tenantCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get domain by code: %w", err)
	}
	return &domain, nil
}

// GetByHostname 根据主机名获取租户域
func (r *DomainRepository) GetByHostname(ctx context.Context, hostname string) (*entity.Domain, error) {
	ctx, span := tracer.Start(ctx, "postgres.DomainRepository.GetByHostname")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var domain entity.Domain
	if err := db.First(&domain, "? = ANY(hostnames)", hostname).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get domain by hostname: %w", err)
	}
	return &domain, nil
}

// Update 更新租户域
func (r *DomainRepository) Update(ctx context.Context, domain *entity.Domain) error {
	ctx, span := tracer.Start(ctx, "postgres.DomainRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(domain).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update domain: %w", err)
	}
	return nil
}

// UpdateStatus 状态迁移，校验迁移合法性
func (r *DomainRepository) UpdateStatus(ctx context.Context, domainID int64, status entity.DomainStatus) error {
	ctx, span := tracer.Start(ctx, "postgres.DomainRepository.UpdateStatus")
	defer span.End()

	current, err := r.GetByID(ctx, domainID)
	if err != nil {
		return err
	}
	if current == nil {
		return apperrors.ErrTenantNotFound
	}
	if !current.Status.CanTransitionTo(status) {
		return apperrors.ErrInvalidStatusTransition.WithDetail(
			fmt.Sprintf("%s -> %s", current.Status, status))
	}

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.Domain{}).Where("domain_id = ?", domainID).Update("status", status).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update domain status: %w", err)
	}
	return nil
}

// List 获取租户域列表
func (r *DomainRepository) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Domain], error) {
	ctx, span := tracer.Start(ctx, "postgres.DomainRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)

	var total int64
	if err := db.Model(&entity.Domain{}).Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count domains: %w", err)
	}

	var domains []*entity.Domain
	if err := db.Order("domain_id ASC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&domains).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}

	return repository.NewPagedResult(domains, total, pagination), nil
}

// ExistsByCode 检查租户码是否已存在
func (r *DomainRepository) ExistsByCode(ctx context.Context, tenantCode string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.DomainRepository.ExistsByCode")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int64
	if err := db.Model(&entity.Domain{}).Where("tenant_code = ?", tenantCode).Count(&count).Error; err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to check tenant code exists: %w", err)
	}
	return count > 0, nil
}
