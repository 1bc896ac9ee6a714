package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetQueryParamAsDate parses an optional YYYY-MM-DD or RFC3339 query value.
// Plain dates are midnight UTC.
func GetQueryParamAsDate(c *gin.Context, paramName string) (*time.Time, error) {
	paramValue := strings.TrimSpace(c.Query(paramName))
	if paramValue == "" {
		return nil, nil
	}
	t, err := ParseDate(paramValue)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", paramName)
	}
	return &t, nil
}

func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, time.UTC)
}

func GetPathParamAsUUID(c *gin.Context, paramName string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(paramName))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s", paramName)
	}
	return id, nil
}
