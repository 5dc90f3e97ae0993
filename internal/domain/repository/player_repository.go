// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"casino-platform-api/internal/domain/entity"
)

// PlayerRepository 玩家仓储接口（租户作用域）
// 所有查询按 domainID 过滤：异租户实体表现为未找到，绝不泄露其存在性
type PlayerRepository interface {
	// Create 创建玩家
	Create(ctx context.Context, player *entity.Player) error

	// GetByID 在指定租户域内按 ID 获取玩家，未找到返回 (nil, nil)
	GetByID(ctx context.Context, domainID int64, id string) (*entity.Player, error)

	// List 列出指定租户域的玩家
	List(ctx context.Context, domainID int64, pagination Pagination) (*PagedResult[*entity.Player], error)

	// Update 在指定租户域内更新玩家
	Update(ctx context.Context, player *entity.Player) error

	// Delete 在指定租户域内删除玩家
	Delete(ctx context.Context, domainID int64, id string) error

	// CreateSession 创建玩家会话，会话必须与父玩家同域
	CreateSession(ctx context.Context, session *entity.PlayerSession) error

	// GetSession 在指定租户域内获取会话，未找到返回 (nil, nil)
	GetSession(ctx context.Context, domainID int64, id string) (*entity.PlayerSession, error)
}
