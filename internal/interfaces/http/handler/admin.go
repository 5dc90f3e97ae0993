// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"casino-platform-api/internal/audit"
	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/domain/repository"
	"casino-platform-api/internal/infrastructure/persistence/redis"
	"casino-platform-api/internal/isolation"
	"casino-platform-api/internal/interfaces/http/dto"
	"casino-platform-api/internal/property"
	"casino-platform-api/internal/tenancy"
	"casino-platform-api/pkg/logger"
)

// AdminHandler 租户管理处理器
// 所有写操作遵循固定顺序：先写库，再失效缓存，最后落审计
type AdminHandler struct {
	domainRepo repository.DomainRepository
	auditRepo  repository.AuditRepository
	props      *property.Resolver
	cache      *redis.TenantCache
	enforcer   *isolation.Enforcer
	sink       *audit.Sink
	txMgr      repository.Transactor
}

// NewAdminHandler 创建租户管理处理器
func NewAdminHandler(
	domainRepo repository.DomainRepository,
	auditRepo repository.AuditRepository,
	props *property.Resolver,
	cache *redis.TenantCache,
	enforcer *isolation.Enforcer,
	sink *audit.Sink,
	txMgr repository.Transactor,
) *AdminHandler {
	return &AdminHandler{
		domainRepo: domainRepo,
		auditRepo:  auditRepo,
		props:      props,
		cache:      cache,
		enforcer:   enforcer,
		sink:       sink,
		txMgr:      txMgr,
	}
}

// CreateDomain 创建租户
// @Summary 创建租户
// @Description 创建新租户域，初始状态为 active
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body dto.CreateDomainRequest true "租户信息"
// @Success 201 {object} dto.Response[dto.DomainResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/admin/domains [post]
func (h *AdminHandler) CreateDomain(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	exists, err := h.domainRepo.ExistsByCode(ctx, req.TenantCode)
	if err != nil {
		logger.Error(ctx, "failed to check tenant code", err)
		dto.InternalError(c, "failed to create domain")
		return
	}
	if exists {
		dto.Conflict(c, "tenant code already exists")
		return
	}

	domain := entity.NewDomain(req.TenantCode, req.DisplayName, req.Hostnames)
	err = h.txMgr.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := h.domainRepo.Create(txCtx, domain); err != nil {
			return err
		}
		return h.sink.Record(txCtx, entity.NewAuditRecord(entity.AuditEventTenantCreated, actorFrom(ctx)).
			WithDomain(domain.DomainID).
			WithTarget(domain.TenantCode).
			WithChange(nil, entity.AuditPayload{"status": string(domain.Status), "hostnames": domain.Hostnames}))
	})
	if err != nil {
		logger.Error(ctx, "failed to create domain", err)
		dto.FromError(c, err)
		return
	}

	dto.Created(c, dto.ToDomainResponse(domain))
}

// ListDomains 列出全部租户
// @Summary 租户列表
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.Response[[]dto.DomainResponse]
// @Router /v1/admin/domains [get]
func (h *AdminHandler) ListDomains(c *gin.Context) {
	ctx := c.Request.Context()
	page := dto.BindPage(c)

	result, err := h.domainRepo.List(ctx, repository.Pagination{Page: page.Page, PageSize: page.PageSize})
	if err != nil {
		logger.Error(ctx, "failed to list domains", err)
		dto.InternalError(c, "failed to list domains")
		return
	}

	dto.SuccessWithPage(c, dto.ToDomainResponses(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// UpdateDomainStatus 变更租户状态
// @Summary 变更租户状态
// @Description 执行状态迁移，archived 为终态；变更后立即失效身份缓存
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "租户 ID"
// @Param body body dto.UpdateDomainStatusRequest true "目标状态"
// @Success 200 {object} dto.Response[dto.DomainResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/admin/domains/{id}/status [put]
func (h *AdminHandler) UpdateDomainStatus(c *gin.Context) {
	ctx := c.Request.Context()

	domainID, err := dto.BindDomainID(c)
	if err != nil {
		dto.BadRequest(c, "invalid domain id")
		return
	}
	if _, err := h.enforcer.CheckAccess(ctx, domainID); err != nil {
		dto.FromError(c, err)
		return
	}

	var req dto.UpdateDomainStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	status := entity.DomainStatus(req.Status)
	if !status.Valid() {
		dto.BadRequest(c, "invalid status: "+req.Status)
		return
	}

	before, err := h.domainRepo.GetByID(ctx, domainID)
	if err != nil {
		logger.Error(ctx, "failed to load domain", err)
		dto.InternalError(c, "failed to update domain status")
		return
	}
	if before == nil {
		dto.NotFound(c, "domain not found")
		return
	}

	if err := h.domainRepo.UpdateStatus(ctx, domainID, status); err != nil {
		dto.FromError(c, err)
		return
	}

	// 写库成功后立即失效身份缓存，保证新状态在下一次解析即生效
	if err := h.cache.InvalidateDomain(ctx, before.TenantCode, before.Hostnames); err != nil {
		logger.Error(ctx, "failed to invalidate tenant cache after status change", err,
			"domain_id", domainID)
	}

	if err := h.sink.Record(ctx, entity.NewAuditRecord(entity.AuditEventTenantStatus, actorFrom(ctx)).
		WithDomain(domainID).
		WithTarget(before.TenantCode).
		WithChange(entity.AuditPayload{"status": string(before.Status)},
			entity.AuditPayload{"status": string(status)})); err != nil {
		logger.Error(ctx, "failed to audit status change", err, "domain_id", domainID)
		dto.InternalError(c, "failed to audit status change")
		return
	}

	after, err := h.domainRepo.GetByID(ctx, domainID)
	if err != nil || after == nil {
		logger.Error(ctx, "failed to reload domain", err)
		dto.InternalError(c, "failed to update domain status")
		return
	}
	dto.Success(c, dto.ToDomainResponse(after))
}

// SetProperty 写入租户覆盖值
// @Summary 设置属性覆盖值
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "租户 ID"
// @Param name path string true "属性名"
// @Param body body dto.SetPropertyRequest true "属性值"
// @Success 200 {object} dto.Response[dto.PropertyResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/admin/domains/{id}/properties/{name} [put]
func (h *AdminHandler) SetProperty(c *gin.Context) {
	ctx := c.Request.Context()

	domainID, err := dto.BindDomainID(c)
	if err != nil {
		dto.BadRequest(c, "invalid domain id")
		return
	}
	if _, err := h.enforcer.CheckAccess(ctx, domainID); err != nil {
		dto.FromError(c, err)
		return
	}

	name := dto.BindPropertyName(c)
	var req dto.SetPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := h.props.Set(ctx, domainID, name, req.Value); err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, &dto.PropertyResponse{Name: name, Value: req.Value})
}

// RemoveProperty 删除租户覆盖值
// @Summary 删除属性覆盖值
// @Description 删除后属性回落到全局值或内置默认值
// @Tags Admin
// @Produce json
// @Param id path int true "租户 ID"
// @Param name path string true "属性名"
// @Success 204
// @Router /v1/admin/domains/{id}/properties/{name} [delete]
func (h *AdminHandler) RemoveProperty(c *gin.Context) {
	ctx := c.Request.Context()

	domainID, err := dto.BindDomainID(c)
	if err != nil {
		dto.BadRequest(c, "invalid domain id")
		return
	}
	if _, err := h.enforcer.CheckAccess(ctx, domainID); err != nil {
		dto.FromError(c, err)
		return
	}

	if err := h.props.Remove(ctx, domainID, dto.BindPropertyName(c)); err != nil {
		dto.FromError(c, err)
		return
	}
	dto.NoContent(c)
}

// ListAudit 查询租户审计记录
// @Summary 审计记录列表
// @Tags Admin
// @Produce json
// @Param id path int true "租户 ID"
// @Success 200 {object} dto.Response[[]dto.AuditRecordResponse]
// @Router /v1/admin/domains/{id}/audit [get]
func (h *AdminHandler) ListAudit(c *gin.Context) {
	ctx := c.Request.Context()

	domainID, err := dto.BindDomainID(c)
	if err != nil {
		dto.BadRequest(c, "invalid domain id")
		return
	}
	if _, err := h.enforcer.CheckAccess(ctx, domainID); err != nil {
		dto.FromError(c, err)
		return
	}

	page := dto.BindPage(c)
	result, err := h.auditRepo.ListByDomain(ctx, domainID, repository.Pagination{Page: page.Page, PageSize: page.PageSize})
	if err != nil {
		logger.Error(ctx, "failed to list audit records", err)
		dto.InternalError(c, "failed to list audit records")
		return
	}

	dto.SuccessWithPage(c, dto.ToAuditRecordResponses(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// actorFrom 提取当前操作者，无上下文时记为 system
func actorFrom(ctx context.Context) string {
	if rc, err := tenancy.FromContext(ctx); err == nil && rc.Actor() != "" {
		return rc.Actor()
	}
	return "system"
}
