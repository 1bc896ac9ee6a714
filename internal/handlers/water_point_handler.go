package handlers

import (
	"net/http"

	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WaterPointHandler struct {
	waterPointService services.IWaterPointService
	middleware        *Middleware
	logger            *zap.Logger
}

func NewWaterPointHandler(waterPointService services.IWaterPointService, middleware *Middleware, logger *zap.Logger) *WaterPointHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WaterPointHandler{
		waterPointService: waterPointService,
		middleware:        middleware,
		logger:            logger,
	}
}

func (h *WaterPointHandler) RegisterRoutes(router *gin.Engine) {
	waterPointGr := router.Group("/api/v1/farms/:farmId/water-points", h.middleware.RequireAuth, h.middleware.RequireOrganization)
	waterPointGr.POST("", h.CreateWaterPoint)
	waterPointGr.GET("", h.ListWaterPoints)
	waterPointGr.GET("/:id", h.GetWaterPoint)
	waterPointGr.PATCH("/:id", h.UpdateWaterPoint)
	waterPointGr.DELETE("/:id", h.DeleteWaterPoint)
}

func (h *WaterPointHandler) CreateWaterPoint(c *gin.Context) {
	farmID, ok := pathUUID(c, "farmId")
	if !ok {
		return
	}
	var req models.CreateWaterPointRequest
	if !bindJSON(c, &req) {
		return
	}
	wp, err := h.waterPointService.Create(c.Request.Context(), farmID, currentOrganizationID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusCreated, wp)
}

func (h *WaterPointHandler) ListWaterPoints(c *gin.Context) {
	farmID, ok := pathUUID(c, "farmId")
	if !ok {
		return
	}
	waterPoints, err := h.waterPointService.List(c.Request.Context(), farmID, currentOrganizationID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if waterPoints == nil {
		waterPoints = []models.WaterPoint{}
	}
	respondSuccess(c, http.StatusOK, waterPoints)
}

func (h *WaterPointHandler) GetWaterPoint(c *gin.Context) {
	farmID, id, ok := farmAndID(c)
	if !ok {
		return
	}
	wp, err := h.waterPointService.Get(c.Request.Context(), id, farmID, currentOrganizationID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, wp)
}

func (h *WaterPointHandler) UpdateWaterPoint(c *gin.Context) {
	farmID, id, ok := farmAndID(c)
	if !ok {
		return
	}
	var req models.UpdateWaterPointRequest
	if !bindJSON(c, &req) {
		return
	}
	wp, err := h.waterPointService.Update(c.Request.Context(), id, farmID, currentOrganizationID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, wp)
}

func (h *WaterPointHandler) DeleteWaterPoint(c *gin.Context) {
	farmID, id, ok := farmAndID(c)
	if !ok {
		return
	}
	if err := h.waterPointService.Delete(c.Request.Context(), id, farmID, currentOrganizationID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
