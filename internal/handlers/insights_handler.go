package handlers

import (
	"context"
	"net/http"

	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InsightsHandler struct {
	insightsService services.IInsightsService
	middleware      *Middleware
	logger          *zap.Logger
}

func NewInsightsHandler(insightsService services.IInsightsService, middleware *Middleware, logger *zap.Logger) *InsightsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightsHandler{
		insightsService: insightsService,
		middleware:      middleware,
		logger:          logger,
	}
}

func (h *InsightsHandler) RegisterRoutes(router *gin.Engine) {
	insightsGr := router.Group("/api/v1/farms/:farmId/insights", h.middleware.RequireAuth, h.middleware.RequireOrganization)
	insightsGr.GET("/rest-days", h.GetRestDays)
	insightsGr.GET("/occupancy", h.ranged(func(ctx context.Context, farmID, orgID uuid.UUID, dr models.DateRange) (any, error) {
		return h.insightsService.GetOccupancy(ctx, farmID, orgID, dr)
	}))
	insightsGr.GET("/stocking-rate", h.ranged(func(ctx context.Context, farmID, orgID uuid.UUID, dr models.DateRange) (any, error) {
		return h.insightsService.GetStockingRate(ctx, farmID, orgID, dr)
	}))
	insightsGr.GET("/timeline", h.ranged(func(ctx context.Context, farmID, orgID uuid.UUID, dr models.DateRange) (any, error) {
		return h.insightsService.GetTimeline(ctx, farmID, orgID, dr)
	}))
	insightsGr.GET("/active-alerts", h.ranged(func(ctx context.Context, farmID, orgID uuid.UUID, dr models.DateRange) (any, error) {
		return h.insightsService.GetActiveAlerts(ctx, farmID, orgID, dr)
	}))
}

func (h *InsightsHandler) GetRestDays(c *gin.Context) {
	farmID, ok := pathUUID(c, "farmId")
	if !ok {
		return
	}
	resp, err := h.insightsService.GetRestDays(c.Request.Context(), farmID, currentOrganizationID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, resp)
}

type rangedInsight func(ctx context.Context, farmID, orgID uuid.UUID, dr models.DateRange) (any, error)

// ranged adapts an insight that takes the optional from/to window.
func (h *InsightsHandler) ranged(fetch rangedInsight) gin.HandlerFunc {
	return func(c *gin.Context) {
		farmID, ok := pathUUID(c, "farmId")
		if !ok {
			return
		}
		dr, ok := dateRangeQuery(c)
		if !ok {
			return
		}
		resp, err := fetch(c.Request.Context(), farmID, currentOrganizationID(c), dr)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		respondSuccess(c, http.StatusOK, resp)
	}
}
