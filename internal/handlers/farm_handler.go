package handlers

import (
	"net/http"

	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FarmHandler struct {
	farmService services.IFarmService
	middleware  *Middleware
	logger      *zap.Logger
}

func NewFarmHandler(farmService services.IFarmService, middleware *Middleware, logger *zap.Logger) *FarmHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FarmHandler{
		farmService: farmService,
		middleware:  middleware,
		logger:      logger,
	}
}

func (h *FarmHandler) RegisterRoutes(router *gin.Engine) {
	farmGr := router.Group("/api/v1/farms", h.middleware.RequireAuth, h.middleware.RequireOrganization)
	farmGr.POST("", h.CreateFarm)
	farmGr.GET("", h.ListFarms)
	farmGr.GET("/:farmId", h.GetFarm)
	farmGr.GET("/:farmId/map-layers", h.GetMapLayers)
}

func (h *FarmHandler) CreateFarm(c *gin.Context) {
	var req models.CreateFarmRequest
	if !bindJSON(c, &req) {
		return
	}
	farm, err := h.farmService.CreateFarm(c.Request.Context(), currentOrganizationID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusCreated, farm)
}

func (h *FarmHandler) ListFarms(c *gin.Context) {
	farms, err := h.farmService.ListFarms(c.Request.Context(), currentOrganizationID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, farms)
}

func (h *FarmHandler) GetFarm(c *gin.Context) {
	farmID, ok := pathUUID(c, "farmId")
	if !ok {
		return
	}
	farm, err := h.farmService.GetFarm(c.Request.Context(), farmID, currentOrganizationID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, farm)
}

func (h *FarmHandler) GetMapLayers(c *gin.Context) {
	farmID, ok := pathUUID(c, "farmId")
	if !ok {
		return
	}
	layers, err := h.farmService.GetMapLayers(c.Request.Context(), farmID, currentOrganizationID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, layers)
}
