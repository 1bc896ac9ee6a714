package handlers

import (
	"net/http"
	"strings"

	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GrazingEventHandler struct {
	grazingEventService services.IGrazingEventService
	middleware          *Middleware
	logger              *zap.Logger
}

func NewGrazingEventHandler(grazingEventService services.IGrazingEventService, middleware *Middleware, logger *zap.Logger) *GrazingEventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GrazingEventHandler{
		grazingEventService: grazingEventService,
		middleware:          middleware,
		logger:              logger,
	}
}

func (h *GrazingEventHandler) RegisterRoutes(router *gin.Engine) {
	eventGr := router.Group("/api/v1/farms/:farmId/grazing-events", h.middleware.RequireAuth, h.middleware.RequireOrganization)
	eventGr.POST("", h.CreateGrazingEvent)
	eventGr.GET("", h.ListGrazingEvents)
	eventGr.GET("/:id", h.GetGrazingEvent)
	eventGr.PATCH("/:id", h.UpdateGrazingEvent)
	eventGr.DELETE("/:id", h.DeleteGrazingEvent)
}

func (h *GrazingEventHandler) CreateGrazingEvent(c *gin.Context) {
	farmID, ok := pathUUID(c, "farmId")
	if !ok {
		return
	}
	var req models.CreateGrazingEventRequest
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.grazingEventService.Create(c.Request.Context(), farmID, currentOrganizationID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusCreated, event.ToResponse())
}

func (h *GrazingEventHandler) ListGrazingEvents(c *gin.Context) {
	farmID, ok := pathUUID(c, "farmId")
	if !ok {
		return
	}
	filter, ok := grazingEventFilterQuery(c)
	if !ok {
		return
	}
	events, err := h.grazingEventService.List(c.Request.Context(), farmID, currentOrganizationID(c), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, models.GrazingEventsToResponse(events))
}

func (h *GrazingEventHandler) GetGrazingEvent(c *gin.Context) {
	farmID, id, ok := farmAndID(c)
	if !ok {
		return
	}
	event, err := h.grazingEventService.Get(c.Request.Context(), id, farmID, currentOrganizationID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, event.ToResponse())
}

func (h *GrazingEventHandler) UpdateGrazingEvent(c *gin.Context) {
	farmID, id, ok := farmAndID(c)
	if !ok {
		return
	}
	var req models.UpdateGrazingEventRequest
	if !bindJSON(c, &req) {
		return
	}
	event, err := h.grazingEventService.Update(c.Request.Context(), id, farmID, currentOrganizationID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, event.ToResponse())
}

func (h *GrazingEventHandler) DeleteGrazingEvent(c *gin.Context) {
	farmID, id, ok := farmAndID(c)
	if !ok {
		return
	}
	if err := h.grazingEventService.Delete(c.Request.Context(), id, farmID, currentOrganizationID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func grazingEventFilterQuery(c *gin.Context) (models.GrazingEventFilter, bool) {
	var filter models.GrazingEventFilter
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := models.GrazingEventStatus(raw)
		if !status.IsValid() {
			respondBadRequest(c, "invalid status")
			return filter, false
		}
		filter.Status = &status
	}
	dr, ok := dateRangeQuery(c)
	if !ok {
		return filter, false
	}
	filter.From, filter.To = dr.From, dr.To
	return filter, true
}
