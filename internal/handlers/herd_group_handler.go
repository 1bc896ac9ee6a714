package handlers

import (
	"net/http"

	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HerdGroupHandler struct {
	herdGroupService services.IHerdGroupService
	middleware       *Middleware
	logger           *zap.Logger
}

func NewHerdGroupHandler(herdGroupService services.IHerdGroupService, middleware *Middleware, logger *zap.Logger) *HerdGroupHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HerdGroupHandler{
		herdGroupService: herdGroupService,
		middleware:       middleware,
		logger:           logger,
	}
}

func (h *HerdGroupHandler) RegisterRoutes(router *gin.Engine) {
	herdGroupGr := router.Group("/api/v1/farms/:farmId/herd-groups", h.middleware.RequireAuth, h.middleware.RequireOrganization)
	herdGroupGr.POST("", h.CreateHerdGroup)
	herdGroupGr.GET("", h.ListHerdGroups)
	herdGroupGr.GET("/:id", h.GetHerdGroup)
	herdGroupGr.PATCH("/:id", h.UpdateHerdGroup)
	herdGroupGr.DELETE("/:id", h.DeleteHerdGroup)
}

func (h *HerdGroupHandler) CreateHerdGroup(c *gin.Context) {
	farmID, ok := pathUUID(c, "farmId")
	if !ok {
		return
	}
	var req models.CreateHerdGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	hg, err := h.herdGroupService.Create(c.Request.Context(), farmID, currentOrganizationID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusCreated, hg.ToResponse())
}

func (h *HerdGroupHandler) ListHerdGroups(c *gin.Context) {
	farmID, ok := pathUUID(c, "farmId")
	if !ok {
		return
	}
	groups, err := h.herdGroupService.List(c.Request.Context(), farmID, currentOrganizationID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, models.HerdGroupsToResponse(groups))
}

func (h *HerdGroupHandler) GetHerdGroup(c *gin.Context) {
	farmID, id, ok := farmAndID(c)
	if !ok {
		return
	}
	hg, err := h.herdGroupService.Get(c.Request.Context(), id, farmID, currentOrganizationID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, hg.ToResponse())
}

func (h *HerdGroupHandler) UpdateHerdGroup(c *gin.Context) {
	farmID, id, ok := farmAndID(c)
	if !ok {
		return
	}
	var req models.UpdateHerdGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	hg, err := h.herdGroupService.Update(c.Request.Context(), id, farmID, currentOrganizationID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, hg.ToResponse())
}

func (h *HerdGroupHandler) DeleteHerdGroup(c *gin.Context) {
	farmID, id, ok := farmAndID(c)
	if !ok {
		return
	}
	if err := h.herdGroupService.Delete(c.Request.Context(), id, farmID, currentOrganizationID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
