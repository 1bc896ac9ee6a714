package handlers

import (
	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// pathUUID parses a path parameter, answering 400 when it is not a UUID.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := utils.GetPathParamAsUUID(c, name)
	if err != nil {
		respondBadRequest(c, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// farmAndID parses :farmId and :id for nested resource routes.
func farmAndID(c *gin.Context) (farmID, id uuid.UUID, ok bool) {
	if farmID, ok = pathUUID(c, "farmId"); !ok {
		return
	}
	id, ok = pathUUID(c, "id")
	return
}

func dateRangeQuery(c *gin.Context) (models.DateRange, bool) {
	from, err := utils.GetQueryParamAsDate(c, "from")
	if err != nil {
		respondBadRequest(c, err.Error())
		return models.DateRange{}, false
	}
	to, err := utils.GetQueryParamAsDate(c, "to")
	if err != nil {
		respondBadRequest(c, err.Error())
		return models.DateRange{}, false
	}
	return models.DateRange{From: from, To: to}, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
