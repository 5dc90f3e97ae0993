// Package entity 定义领域实体
package entity

import (
	"time"
)

// GlobalDomainID 全局配置行的 domain_id 取值（不属于任何租户）
const GlobalDomainID int64 = 0

// Property 配置项
// domain_id > 0 为租户覆盖值，domain_id = 0 为全局值；(domain_id, name) 唯一
// 存储恒为文本，类型转换发生在调用侧
type Property struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	DomainID  int64     `json:"domain_id" gorm:"column:domain_id;uniqueIndex:idx_properties_domain_name"`
	Name      string    `json:"name" gorm:"size:128;uniqueIndex:idx_properties_domain_name"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Property) TableName() string {
	return "properties"
}

// IsGlobal 是否为全局配置
func (p *Property) IsGlobal() bool {
	return p.DomainID == GlobalDomainID
}
