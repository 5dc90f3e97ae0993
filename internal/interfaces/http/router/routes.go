// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"

	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/interfaces/http/middleware"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	// 租户自身信息
	tenant := v1.Group("/tenant")
	{
		tenant.GET("/current", h.Tenant.GetCurrentDomain)
		tenant.GET("/properties/:name", h.Property.GetProperty)
	}

	// 玩家管理（租户作用域）
	players := v1.Group("/players")
	{
		players.GET("", h.Player.ListPlayers)
		players.POST("", h.Player.CreatePlayer)
		players.GET("/:pid", h.Player.GetPlayer)
		players.PUT("/:pid", h.Player.UpdatePlayer)
		players.DELETE("/:pid", h.Player.DeletePlayer)
		players.POST("/:pid/sessions", h.Player.CreateSession)
	}

	// 玩家会话
	sessions := v1.Group("/sessions")
	{
		sessions.GET("/:sid", h.Player.GetSession)
	}

	// 租户管理（需要 tenant:admin，跨租户操作由隔离执行器审计放行）
	admin := v1.Group("/admin")
	admin.Use(middleware.RequireCapability(entity.CapabilityTenantAdmin))
	{
		admin.GET("/domains", h.Admin.ListDomains)
		admin.POST("/domains", h.Admin.CreateDomain)
		admin.PUT("/domains/:id/status", h.Admin.UpdateDomainStatus)
		admin.PUT("/domains/:id/properties/:name", h.Admin.SetProperty)
		admin.DELETE("/domains/:id/properties/:name", h.Admin.RemoveProperty)
		admin.GET("/domains/:id/audit", h.Admin.ListAudit)
	}
}
