// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"casino-platform-api/internal/domain/entity"
)

// PropertyRepository 配置存储接口
// domain_id = entity.GlobalDomainID 的行为全局值，其余为租户覆盖值
type PropertyRepository interface {
	// Get 获取配置项，未找到返回 (nil, nil)
	Get(ctx context.Context, domainID int64, name string) (*entity.Property, error)

	// Set 写入或更新配置项
	Set(ctx context.Context, domainID int64, name, value string) error

	// Remove 删除配置项，不存在时为空操作
	Remove(ctx context.Context, domainID int64, name string) error

	// ListByDomain 列出某租户域的全部覆盖值
	ListByDomain(ctx context.Context, domainID int64) ([]*entity.Property, error)
}
