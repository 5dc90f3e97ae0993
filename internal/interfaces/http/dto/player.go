// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"casino-platform-api/internal/domain/entity"
)

// CreatePlayerRequest 创建玩家请求
type CreatePlayerRequest struct {
	Username string `json:"username" binding:"required,min=2,max=64"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// UpdatePlayerRequest 更新玩家请求
type UpdatePlayerRequest struct {
	Email  string `json:"email" binding:"omitempty,email"`
	Status string `json:"status" binding:"omitempty,oneof=active blocked closed"`
}

// PlayerResponse 玩家响应
type PlayerResponse struct {
	ID        string    `json:"id"`
	DomainID  int64     `json:"domain_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToPlayerResponse 转换玩家实体为响应
func ToPlayerResponse(p *entity.Player) *PlayerResponse {
	return &PlayerResponse{
		ID:        p.ID,
		DomainID:  p.DomainID,
		Username:  p.Username,
		Email:     p.Email,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToPlayerResponses 批量转换玩家实体
func ToPlayerResponses(players []*entity.Player) []*PlayerResponse {
	out := make([]*PlayerResponse, 0, len(players))
	for _, p := range players {
		out = append(out, ToPlayerResponse(p))
	}
	return out
}

// CreateSessionRequest 创建玩家会话请求
type CreateSessionRequest struct {
	IPAddress string `json:"ip_address" binding:"omitempty,ip"`
}

// SessionResponse 玩家会话响应
type SessionResponse struct {
	ID        string     `json:"id"`
	DomainID  int64      `json:"domain_id"`
	PlayerID  string     `json:"player_id"`
	IPAddress string     `json:"ip_address,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// ToSessionResponse 转换玩家会话为响应
func ToSessionResponse(s *entity.PlayerSession) *SessionResponse {
	return &SessionResponse{
		ID:        s.ID,
		DomainID:  s.DomainID,
		PlayerID:  s.PlayerID,
		IPAddress: s.IPAddress,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
	}
}
