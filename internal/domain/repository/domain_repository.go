// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"casino-platform-api/internal/domain/entity"
)

// DomainRepository 租户目录接口
// 租户域是软生命周期实体：只创建和状态迁移，从不删除
type DomainRepository interface {
	// Create 创建租户域
	Create(ctx context.Context, domain *entity.Domain) error

	// GetByID 根据 domain_id 获取租户域
	GetByID(ctx context.Context, domainID int64) (*entity.Domain, error)

	// GetByCode 根据租户码获取租户域
	GetByCode(ctx context.Context, tenantCode string) (*entity.Domain, error)

	// GetByHostname 根据主机名获取租户域
	GetByHostname(ctx context.Context, hostname string) (*entity.Domain, error)

	// Update 更新租户域（不含状态迁移）
	Update(ctx context.Context, domain *entity.Domain) error

	// UpdateStatus 状态迁移，archived 为终态
	UpdateStatus(ctx context.Context, domainID int64, status entity.DomainStatus) error

	// List 获取租户域列表
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.Domain], error)

	// ExistsByCode 检查租户码是否已存在
	ExistsByCode(ctx context.Context, tenantCode string) (bool, error)
}
