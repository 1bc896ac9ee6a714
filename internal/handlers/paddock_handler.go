package handlers

import (
	"net/http"

	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaddockHandler struct {
	paddockService services.IPaddockService
	middleware     *Middleware
	logger         *zap.Logger
}

func NewPaddockHandler(paddockService services.IPaddockService, middleware *Middleware, logger *zap.Logger) *PaddockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaddockHandler{
		paddockService: paddockService,
		middleware:     middleware,
		logger:         logger,
	}
}

func (h *PaddockHandler) RegisterRoutes(router *gin.Engine) {
	paddockGr := router.Group("/api/v1/farms/:farmId/paddocks", h.middleware.RequireAuth, h.middleware.RequireOrganization)
	paddockGr.POST("", h.CreatePaddock)
	paddockGr.GET("", h.ListPaddocks)
	paddockGr.GET("/:id", h.GetPaddock)
	paddockGr.PATCH("/:id", h.UpdatePaddock)
	paddockGr.DELETE("/:id", h.DeletePaddock)
}

func (h *PaddockHandler) CreatePaddock(c *gin.Context) {
	farmID, ok := pathUUID(c, "farmId")
	if !ok {
		return
	}
	var req models.CreatePaddockRequest
	if !bindJSON(c, &req) {
		return
	}
	paddock, err := h.paddockService.Create(c.Request.Context(), farmID, currentOrganizationID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusCreated, paddock.ToResponse())
}

func (h *PaddockHandler) ListPaddocks(c *gin.Context) {
	farmID, ok := pathUUID(c, "farmId")
	if !ok {
		return
	}
	paddocks, err := h.paddockService.List(c.Request.Context(), farmID, currentOrganizationID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, models.PaddocksToResponse(paddocks))
}

func (h *PaddockHandler) GetPaddock(c *gin.Context) {
	farmID, id, ok := farmAndID(c)
	if !ok {
		return
	}
	paddock, err := h.paddockService.Get(c.Request.Context(), id, farmID, currentOrganizationID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, paddock.ToResponse())
}

func (h *PaddockHandler) UpdatePaddock(c *gin.Context) {
	farmID, id, ok := farmAndID(c)
	if !ok {
		return
	}
	var req models.UpdatePaddockRequest
	if !bindJSON(c, &req) {
		return
	}
	paddock, err := h.paddockService.Update(c.Request.Context(), id, farmID, currentOrganizationID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, paddock.ToResponse())
}

func (h *PaddockHandler) DeletePaddock(c *gin.Context) {
	farmID, id, ok := farmAndID(c)
	if !ok {
		return
	}
	if err := h.paddockService.Delete(c.Request.Context(), id, farmID, currentOrganizationID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
