// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/google/uuid"
)

// PlayerStatus 玩家状态
type PlayerStatus string

const (
	PlayerStatusActive  PlayerStatus = "active"
	PlayerStatusBlocked PlayerStatus = "blocked"
	PlayerStatusClosed  PlayerStatus = "closed"
)

// Player 玩家实体（租户作用域）
// domain_id 在创建时固定，之后不可变更
type Player struct {
	ID        string       `json:"id" gorm:"primaryKey;size:36"`
	DomainID  int64        `json:"domain_id" gorm:"column:domain_id;index;not null"`
	Username  string       `json:"username" gorm:"size:64;uniqueIndex:idx_players_domain_username"`
	Email     string       `json:"email" gorm:"size:255"`
	Status    PlayerStatus `json:"status" gorm:"size:16"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TableName 指定表名
func (Player) TableName() string {
	return "players"
}

// NewPlayer 创建新玩家
func NewPlayer(domainID int64, username, email string) *Player {
	now := time.Now()
	return &Player{
		ID:        uuid.New().String(),
		DomainID:  domainID,
		Username:  username,
		Email:     email,
		Status:    PlayerStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PlayerSession 玩家会话（Player 的子实体）
// 创建时必须携带与父实体相同的 domain_id
type PlayerSession struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	DomainID  int64      `json:"domain_id" gorm:"column:domain_id;index;not null"`
	PlayerID  string     `json:"player_id" gorm:"size:36;index;not null"`
	IPAddress string     `json:"ip_address" gorm:"size:45"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// TableName 指定表名
func (PlayerSession) TableName() string {
	return "player_sessions"
}

// NewPlayerSession 创建新玩家会话，domain_id 继承自父玩家
func NewPlayerSession(player *Player, ipAddress string) *PlayerSession {
	return &PlayerSession{
		ID:        uuid.New().String(),
		DomainID:  player.DomainID,
		PlayerID:  player.ID,
		IPAddress: ipAddress,
		StartedAt: time.Now(),
	}
}
