package handlers

import (
	"net/http"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/apperror"
	"github.com/TomasElordi/gestion-rural-api/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// now is swapped in tests that assert the envelope timestamp.
var now = time.Now

// MapErrorToHTTPStatusExtended returns the envelope code and HTTP status
// for a service error.
func MapErrorToHTTPStatusExtended(err error) (string, int) {
	code := utils.CodeForKind(apperror.KindOf(err))
	return string(code), code.HTTPStatus()
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	body, httpStatus := utils.ErrorResponseFor(err)
	if httpStatus >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(httpStatus, body)
}

func respondBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(utils.CodeBadRequest.HTTPStatus(), utils.NewErrorResponse(utils.CodeBadRequest, message))
}

func respondSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, utils.NewSuccessResponse(data, now()))
}
