// Package property 提供三层配置属性的注册与解析
package property

// Type 属性值的声明类型
type Type string

const (
	TypeString Type = "string"
	TypeInt    Type = "int"
	TypeBool   Type = "bool"
	TypeJSON   Type = "json"
)

// Definition 属性定义：名称、类型与内置默认值
// 默认值随二进制发布，是三层解析的最后一层，保证已注册属性总能解析出值
type Definition struct {
	Name    string
	Type    Type
	Default string
}

// Registry 编译期内置的属性注册表
type Registry struct {
	defs map[string]Definition
}

// NewRegistry 创建属性注册表
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		r.defs[d.Name] = d
	}
	return r
}

// Lookup 按名称查找属性定义
func (r *Registry) Lookup(name string) (Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Names 返回全部已注册属性名
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	return names
}

// 平台内置属性
const (
	// PropMaxPlayers 单租户允许的最大玩家数
	PropMaxPlayers = "maxPlayers"
	// PropMaxSessionsPerPlayer 单个玩家允许的并发会话数
	PropMaxSessionsPerPlayer = "maxSessionsPerPlayer"
	// PropMaxRequestsPerMinute 单租户每分钟请求上限
	PropMaxRequestsPerMinute = "maxRequestsPerMinute"
	// PropMaintenanceMessage 维护模式下返回给客户端的提示文案
	PropMaintenanceMessage = "maintenanceMessage"
	// PropRegistrationOpen 是否开放玩家注册
	PropRegistrationOpen = "registrationOpen"
	// PropFeatureFlags 以 JSON 形式下发的功能开关集合
	PropFeatureFlags = "featureFlags"
)

// DefaultRegistry 内置属性注册表
func DefaultRegistry() *Registry {
	return NewRegistry(
		Definition{Name: PropMaxPlayers, Type: TypeInt, Default: "10000"},
		Definition{Name: PropMaxSessionsPerPlayer, Type: TypeInt, Default: "3"},
		Definition{Name: PropMaxRequestsPerMinute, Type: TypeInt, Default: "600"},
		Definition{Name: PropMaintenanceMessage, Type: TypeString, Default: "service temporarily unavailable"},
		Definition{Name: PropRegistrationOpen, Type: TypeBool, Default: "true"},
		Definition{Name: PropFeatureFlags, Type: TypeJSON, Default: "{}"},
	)
}
