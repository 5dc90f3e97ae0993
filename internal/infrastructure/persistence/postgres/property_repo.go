// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/domain/repository"
)

// PropertyRepository 配置存储实现
type PropertyRepository struct {
	client *Client
}

// NewPropertyRepository 创建配置存储
func NewPropertyRepository(client *Client) *PropertyRepository {
	return &PropertyRepository{client: client}
}

var _ repository.PropertyRepository = (*PropertyRepository)(nil)

// Get 获取配置项，未找到返回 (nil, nil)
func (r *PropertyRepository) Get(ctx context.Context, domainID int64, name string) (*entity.Property, error) {
	ctx, span := tracer.Start(ctx, "postgres.PropertyRepository.Get")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var prop entity.Property
	if err := db.First(&prop, "domain_id = ? AND name = ?", domainID, name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return &prop, nil
}

// Set 写入或更新配置项（upsert）
func (r *PropertyRepository) Set(ctx context.Context, domainID int64, name, value string) error {
	ctx, span := tracer.Start(ctx, "postgres.PropertyRepository.Set")
	defer span.End()

	db := getDB(ctx, r.client.db)
	prop := entity.Property{
		DomainID: domainID,
		Name:     name,
		Value:    value,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "domain_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&prop).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to set property: %w", err)
	}
	return nil
}

// Remove 删除配置项
func (r *PropertyRepository) Remove(ctx context.Context, domainID int64, name string) error {
	ctx, span := tracer.Start(ctx, "postgres.PropertyRepository.Remove")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Where("domain_id = ? AND name = ?", domainID, name).Delete(&entity.Property{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to remove property: %w", err)
	}
	return nil
}

// ListByDomain 列出某租户域的全部覆盖值
func (r *PropertyRepository) ListByDomain(ctx context.Context, domainID int64) ([]*entity.Property, error) {
	ctx, span := tracer.Start(ctx, "postgres.PropertyRepository.ListByDomain")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var props []*entity.Property
	if err := db.Where("domain_id = ?", domainID).Order("name ASC").Find(&props).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return props, nil
}
