// Package entity 定义领域实体
package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// DomainStatus 租户域状态
type DomainStatus string

const (
	DomainStatusActive      DomainStatus = "active"
	DomainStatusInactive    DomainStatus = "inactive"
	DomainStatusMaintenance DomainStatus = "maintenance"
	DomainStatusSuspended   DomainStatus = "suspended"
	DomainStatusArchived    DomainStatus = "archived"
)

// Valid 检查状态取值是否合法
func (s DomainStatus) Valid() bool {
	switch s {
	case DomainStatusActive, DomainStatusInactive, DomainStatusMaintenance,
		DomainStatusSuspended, DomainStatusArchived:
		return true
	}
	return false
}

// CanTransitionTo 检查状态迁移是否允许
// active/inactive/maintenance/suspended 之间可互相迁移，archived 为终态
func (s DomainStatus) CanTransitionTo(target DomainStatus) bool {
	if !target.Valid() {
		return false
	}
	if s == DomainStatusArchived {
		return false
	}
	return true
}

// ConfigMap 键值配置，持久化为 JSONB
type ConfigMap map[string]string

// Value 实现 driver.Valuer
func (m ConfigMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan 实现 sql.Scanner
func (m *ConfigMap) Scan(src interface{}) error {
	if src == nil {
		*m = ConfigMap{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported config map source type %T", src)
	}
	return json.Unmarshal(data, m)
}

// Domain 租户域实体
// 一个 Domain 即一个逻辑隔离的租户实例（独立品牌的"赌场"）
type Domain struct {
	DomainID      int64          `json:"domain_id" gorm:"column:domain_id;primaryKey;autoIncrement"`
	TenantCode    string         `json:"tenant_code" gorm:"uniqueIndex;size:64"`
	DisplayName   string         `json:"display_name"`
	Status        DomainStatus   `json:"status" gorm:"size:16;index"`
	Hostnames     pq.StringArray `json:"hostnames" gorm:"type:text[]"`
	Configuration ConfigMap      `json:"configuration" gorm:"type:jsonb"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TableName 指定表名
func (Domain) TableName() string {
	return "domains"
}

// NewDomain 创建新租户域
func NewDomain(tenantCode, displayName string, hostnames []string) *Domain {
	now := time.Now()
	return &Domain{
		TenantCode:    tenantCode,
		DisplayName:   displayName,
		Status:        DomainStatusActive,
		Hostnames:     pq.StringArray(hostnames),
		Configuration: ConfigMap{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsActive 检查租户域是否活跃
func (d *Domain) IsActive() bool {
	return d.Status == DomainStatusActive
}

// HasHostname 检查主机名是否路由到本域
func (d *Domain) HasHostname(host string) bool {
	for _, h := range d.Hostnames {
		if h == host {
			return true
		}
	}
	return false
}
