// Package entity 定义领域实体
package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEventType 审计事件类型
type AuditEventType string

const (
	AuditEventTenantResolved    AuditEventType = "tenant.resolved"
	AuditEventTenantCreated     AuditEventType = "tenant.created"
	AuditEventTenantStatus      AuditEventType = "tenant.status_changed"
	AuditEventPropertySet       AuditEventType = "property.set"
	AuditEventPropertyRemoved   AuditEventType = "property.removed"
	AuditEventAccessAllowed     AuditEventType = "access.allowed"
	AuditEventAccessDenied      AuditEventType = "access.denied"
	AuditEventCrossTenantAccess AuditEventType = "access.cross_tenant"
)

// AuditPayload 审计前后值，持久化为 JSONB
type AuditPayload map[string]interface{}

// Value 实现 driver.Valuer
func (p AuditPayload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan 实现 sql.Scanner
func (p *AuditPayload) Scan(src interface{}) error {
	if src == nil {
		*p = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported audit payload source type %T", src)
	}
	return json.Unmarshal(data, p)
}

// AuditRecord 审计记录，仅追加，写入后不可变更或删除
// DomainID 仅对系统级事件为空
type AuditRecord struct {
	ID        string         `json:"id" gorm:"primaryKey;size:36"`
	DomainID  *int64         `json:"domain_id,omitempty" gorm:"column:domain_id;index"`
	EventType AuditEventType `json:"event_type" gorm:"size:48;index"`
	Actor     string         `json:"actor" gorm:"size:128"`
	Target    string         `json:"target,omitempty" gorm:"size:255"`
	Reason    string         `json:"reason,omitempty" gorm:"size:255"`
	Before    AuditPayload   `json:"before,omitempty" gorm:"type:jsonb"`
	After     AuditPayload   `json:"after,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
}

// TableName 指定表名
func (AuditRecord) TableName() string {
	return "audit_records"
}

// NewAuditRecord 创建审计记录
func NewAuditRecord(eventType AuditEventType, actor string) *AuditRecord {
	return &AuditRecord{
		ID:        uuid.New().String(),
		EventType: eventType,
		Actor:     actor,
		CreatedAt: time.Now(),
	}
}

// WithDomain 绑定租户域
func (r *AuditRecord) WithDomain(domainID int64) *AuditRecord {
	r.DomainID = &domainID
	return r
}

// WithTarget 设置目标描述
func (r *AuditRecord) WithTarget(target string) *AuditRecord {
	r.Target = target
	return r
}

// WithReason 设置原因
func (r *AuditRecord) WithReason(reason string) *AuditRecord {
	r.Reason = reason
	return r
}

// WithChange 设置前后值
func (r *AuditRecord) WithChange(before, after AuditPayload) *AuditRecord {
	r.Before = before
	r.After = after
	return r
}
