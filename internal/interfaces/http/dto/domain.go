// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"casino-platform-api/internal/domain/entity"
)

// CreateDomainRequest 创建租户请求
type CreateDomainRequest struct {
	TenantCode  string   `json:"tenant_code" binding:"required,min=2,max=64"`
	DisplayName string   `json:"display_name" binding:"required,max=128"`
	Hostnames   []string `json:"hostnames"`
}

// UpdateDomainStatusRequest 变更租户状态请求
type UpdateDomainStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// DomainResponse 租户响应
type DomainResponse struct {
	DomainID    int64     `json:"domain_id"`
	TenantCode  string    `json:"tenant_code"`
	DisplayName string    `json:"display_name"`
	Status      string    `json:"status"`
	Hostnames   []string  `json:"hostnames"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToDomainResponse 转换租户实体为响应
func ToDomainResponse(d *entity.Domain) *DomainResponse {
	return &DomainResponse{
		DomainID:    d.DomainID,
		TenantCode:  d.TenantCode,
		DisplayName: d.DisplayName,
		Status:      string(d.Status),
		Hostnames:   d.Hostnames,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ToDomainResponses 批量转换租户实体
func ToDomainResponses(domains []*entity.Domain) []*DomainResponse {
	out := make([]*DomainResponse, 0, len(domains))
	for _, d := range domains {
		out = append(out, ToDomainResponse(d))
	}
	return out
}

// AuditRecordResponse 审计记录响应
type AuditRecordResponse struct {
	ID        string              `json:"id"`
	DomainID  *int64              `json:"domain_id,omitempty"`
	EventType string              `json:"event_type"`
	Actor     string              `json:"actor"`
	Target    string              `json:"target,omitempty"`
	Reason    string              `json:"reason,omitempty"`
	Before    entity.AuditPayload `json:"before,omitempty"`
	After     entity.AuditPayload `json:"after,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// ToAuditRecordResponse 转换审计记录为响应
func ToAuditRecordResponse(r *entity.AuditRecord) *AuditRecordResponse {
	return &AuditRecordResponse{
		ID:        r.ID,
		DomainID:  r.DomainID,
		EventType: string(r.EventType),
		Actor:     r.Actor,
		Target:    r.Target,
		Reason:    r.Reason,
		Before:    r.Before,
		After:     r.After,
		CreatedAt: r.CreatedAt,
	}
}

// ToAuditRecordResponses 批量转换审计记录
func ToAuditRecordResponses(records []*entity.AuditRecord) []*AuditRecordResponse {
	out := make([]*AuditRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ToAuditRecordResponse(r))
	}
	return out
}
