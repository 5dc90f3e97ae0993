// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"casino-platform-api/internal/domain/entity"
	"casino-platform-api/internal/domain/repository"
	"casino-platform-api/internal/interfaces/http/dto"
	"casino-platform-api/internal/isolation"
	"casino-platform-api/internal/tenancy"
	"casino-platform-api/pkg/logger"
)

// PlayerHandler 玩家处理器
// 所有读写都以当前租户上下文为作用域，异租户数据表现为不存在
type PlayerHandler struct {
	playerRepo repository.PlayerRepository
	enforcer   *isolation.Enforcer
}

// NewPlayerHandler 创建玩家处理器
func NewPlayerHandler(playerRepo repository.PlayerRepository, enforcer *isolation.Enforcer) *PlayerHandler {
	return &PlayerHandler{
		playerRepo: playerRepo,
		enforcer:   enforcer,
	}
}

// CreatePlayer 创建玩家
// @Summary 创建玩家
// @Tags Players
// @Accept json
// @Produce json
// @Param body body dto.CreatePlayerRequest true "玩家信息"
// @Success 201 {object} dto.Response[dto.PlayerResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/players [post]
func (h *PlayerHandler) CreatePlayer(c *gin.Context) {
	ctx := c.Request.Context()

	rc, err := tenancy.FromContext(ctx)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	var req dto.CreatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	player := entity.NewPlayer(rc.DomainID(), req.Username, req.Email)
	if err := h.playerRepo.Create(ctx, player); err != nil {
		logger.Error(ctx, "failed to create player", err)
		dto.FromError(c, err)
		return
	}
	dto.Created(c, dto.ToPlayerResponse(player))
}

// GetPlayer 获取玩家
// @Summary 获取玩家
// @Tags Players
// @Produce json
// @Param pid path string true "玩家 ID"
// @Success 200 {object} dto.Response[dto.PlayerResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/players/{pid} [get]
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	ctx := c.Request.Context()

	rc, err := tenancy.FromContext(ctx)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	player, err := h.playerRepo.GetByID(ctx, rc.DomainID(), dto.BindPlayerID(c))
	if err != nil {
		logger.Error(ctx, "failed to get player", err)
		dto.InternalError(c, "failed to get player")
		return
	}
	if player == nil {
		dto.NotFound(c, "player not found")
		return
	}
	dto.Success(c, dto.ToPlayerResponse(player))
}

// ListPlayers 玩家列表
// @Summary 玩家列表
// @Tags Players
// @Produce json
// @Success 200 {object} dto.Response[[]dto.PlayerResponse]
// @Router /v1/players [get]
func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	ctx := c.Request.Context()

	rc, err := tenancy.FromContext(ctx)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	page := dto.BindPage(c)
	result, err := h.playerRepo.List(ctx, rc.DomainID(), repository.Pagination{Page: page.Page, PageSize: page.PageSize})
	if err != nil {
		logger.Error(ctx, "failed to list players", err)
		dto.InternalError(c, "failed to list players")
		return
	}

	dto.SuccessWithPage(c, dto.ToPlayerResponses(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// UpdatePlayer 更新玩家
// @Summary 更新玩家
// @Tags Players
// @Accept json
// @Produce json
// @Param pid path string true "玩家 ID"
// @Param body body dto.UpdatePlayerRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.PlayerResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/players/{pid} [put]
func (h *PlayerHandler) UpdatePlayer(c *gin.Context) {
	ctx := c.Request.Context()

	rc, err := tenancy.FromContext(ctx)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	var req dto.UpdatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	player, err := h.playerRepo.GetByID(ctx, rc.DomainID(), dto.BindPlayerID(c))
	if err != nil {
		logger.Error(ctx, "failed to get player", err)
		dto.InternalError(c, "failed to update player")
		return
	}
	if player == nil {
		dto.NotFound(c, "player not found")
		return
	}

	if req.Email != "" {
		player.Email = req.Email
	}
	if req.Status != "" {
		player.Status = entity.PlayerStatus(req.Status)
	}

	if err := h.playerRepo.Update(ctx, player); err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.ToPlayerResponse(player))
}

// DeletePlayer 删除玩家
// @Summary 删除玩家
// @Tags Players
// @Param pid path string true "玩家 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/players/{pid} [delete]
func (h *PlayerHandler) DeletePlayer(c *gin.Context) {
	ctx := c.Request.Context()

	rc, err := tenancy.FromContext(ctx)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	if err := h.playerRepo.Delete(ctx, rc.DomainID(), dto.BindPlayerID(c)); err != nil {
		dto.FromError(c, err)
		return
	}
	dto.NoContent(c)
}

// CreateSession 创建玩家会话
// @Summary 创建玩家会话
// @Description 会话继承父玩家的租户归属，归属不一致即拒绝
// @Tags Players
// @Accept json
// @Produce json
// @Param pid path string true "玩家 ID"
// @Param body body dto.CreateSessionRequest true "会话信息"
// @Success 201 {object} dto.Response[dto.SessionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/players/{pid}/sessions [post]
func (h *PlayerHandler) CreateSession(c *gin.Context) {
	ctx := c.Request.Context()

	rc, err := tenancy.FromContext(ctx)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	player, err := h.playerRepo.GetByID(ctx, rc.DomainID(), dto.BindPlayerID(c))
	if err != nil {
		logger.Error(ctx, "failed to get player", err)
		dto.InternalError(c, "failed to create session")
		return
	}
	if player == nil {
		dto.NotFound(c, "player not found")
		return
	}

	session := entity.NewPlayerSession(player, req.IPAddress)
	if err := h.enforcer.CheckChildWrite(ctx, player.DomainID, session.DomainID); err != nil {
		dto.FromError(c, err)
		return
	}

	if err := h.playerRepo.CreateSession(ctx, session); err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Created(c, dto.ToSessionResponse(session))
}

// GetSession 获取玩家会话
// @Summary 获取玩家会话
// @Tags Players
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid} [get]
func (h *PlayerHandler) GetSession(c *gin.Context) {
	ctx := c.Request.Context()

	rc, err := tenancy.FromContext(ctx)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	session, err := h.playerRepo.GetSession(ctx, rc.DomainID(), dto.BindSessionID(c))
	if err != nil {
		logger.Error(ctx, "failed to get session", err)
		dto.InternalError(c, "failed to get session")
		return
	}
	if session == nil {
		dto.NotFound(c, "session not found")
		return
	}
	dto.Success(c, dto.ToSessionResponse(session))
}
