// Package entity 定义领域实体
package entity

// Capability 调用方能力
type Capability string

const (
	// CapabilityCrossTenantAdmin 跨租户管理能力：允许显式的跨租户访问，仍被单独审计
	CapabilityCrossTenantAdmin Capability = "cross_tenant:admin"
	// CapabilityTenantAdmin 租户内管理能力：创建租户、变更状态、修改配置
	CapabilityTenantAdmin Capability = "tenant:admin"
	// CapabilityPlayerWrite 玩家数据写能力
	CapabilityPlayerWrite Capability = "player:write"
	// CapabilityPlayerRead 玩家数据读能力
	CapabilityPlayerRead Capability = "player:read"
)

// CapabilitySet 能力集合
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet 从字符串列表构建能力集合
func NewCapabilitySet(caps []string) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[Capability(c)] = struct{}{}
	}
	return set
}

// Has 检查是否持有指定能力
func (s CapabilitySet) Has(cap Capability) bool {
	if s == nil {
		return false
	}
	_, ok := s[cap]
	return ok
}

// List 返回能力的字符串列表
func (s CapabilitySet) List() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, string(c))
	}
	return out
}
