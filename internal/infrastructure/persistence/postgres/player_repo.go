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

// PlayerRepository 玩家仓储实现（租户作用域）
// 每个查询都带 domain_id 过滤：异租户数据表现为未找到
type PlayerRepository struct {
	client *Client
}

// NewPlayerRepository 创建玩家仓储
func NewPlayerRepository(client *Client) *PlayerRepository {
	return &PlayerRepository{client: client}
}

var _ repository.PlayerRepository = (*PlayerRepository)(nil)

// Create 创建玩家
func (r *PlayerRepository) Create(ctx context.Context, player *entity.Player) error {
	ctx, span := tracer.Start(ctx, "postgres.PlayerRepository.Create")
	defer span.End()

	if player.DomainID == 0 {
		return apperrors.ErrDomainMismatch.WithDetail("player must carry a domain id")
	}

	db := getDB(ctx, r.client.db)
	if err := db.Create(player).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

// GetByID 在指定租户域内按 ID 获取玩家
func (r *PlayerRepository) GetByID(ctx context.Context, domainID int64, id string) (*entity.Player, error) {
	ctx, span := tracer.Start(ctx, "postgres.PlayerRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var player entity.Player
	if err := db.First(&player, "domain_id = ? AND id = ?", domainID, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &player, nil
}

// List 列出指定租户域的玩家
func (r *PlayerRepository) List(ctx context.Context, domainID int64, pagination repository.Pagination) (*repository.PagedResult[*entity.Player], error) {
	ctx, span := tracer.Start(ctx, "postgres.PlayerRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)

	var total int64
	if err := db.Model(&entity.Player{}).Where("domain_id = ?", domainID).Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count players: %w", err)
	}

	var players []*entity.Player
	if err := db.Where("domain_id = ?", domainID).
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&players).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	return repository.NewPagedResult(players, total, pagination), nil
}

// Update 在指定租户域内更新玩家
// WHERE 条件带 domain_id，异租户的行不会被触及
func (r *PlayerRepository) Update(ctx context.Context, player *entity.Player) error {
	ctx, span := tracer.Start(ctx, "postgres.PlayerRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Model(&entity.Player{}).
		Where("domain_id = ? AND id = ?", player.DomainID, player.ID).
		Updates(map[string]interface{}{
			"username":   player.Username,
			"email":      player.Email,
			"status":     player.Status,
			"updated_at": player.UpdatedAt,
		})
	if result.Error != nil {
		span.RecordError(result.Error)
		return fmt.Errorf("failed to update player: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound.WithDetail("player not found")
	}
	return nil
}

// Delete 在指定租户域内删除玩家
func (r *PlayerRepository) Delete(ctx context.Context, domainID int64, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.PlayerRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Where("domain_id = ? AND id = ?", domainID, id).Delete(&entity.Player{})
	if result.Error != nil {
		span.RecordError(result.Error)
		return fmt.Errorf("failed to delete player: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound.WithDetail("player not found")
	}
	return nil
}

// CreateSession 创建玩家会话
// 会话的 domain_id 必须与父玩家一致，此处为存储层最后一道校验
func (r *PlayerRepository) CreateSession(ctx context.Context, session *entity.PlayerSession) error {
	ctx, span := tracer.Start(ctx, "postgres.PlayerRepository.CreateSession")
	defer span.End()

	parent, err := r.GetByID(ctx, session.DomainID, session.PlayerID)
	if err != nil {
		return err
	}
	if parent == nil {
		return apperrors.ErrNotFound.WithDetail("parent player not found")
	}
	if parent.DomainID != session.DomainID {
		return apperrors.ErrDomainMismatch.WithDetail("session domain differs from parent player")
	}

	db := getDB(ctx, r.client.db)
	if err := db.Create(session).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create player session: %w", err)
	}
	return nil
}

// GetSession 在指定租户域内获取会话
func (r *PlayerRepository) GetSession(ctx context.Context, domainID int64, id string) (*entity.PlayerSession, error) {
	ctx, span := tracer.Start(ctx, "postgres.PlayerRepository.GetSession")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var session entity.PlayerSession
	if err := db.First(&session, "domain_id = ? AND id = ?", domainID, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get player session: %w", err)
	}
	return &session, nil
}
