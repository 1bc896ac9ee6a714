package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/TomasElordi/gestion-rural-api/internal/apperror"
	"github.com/TomasElordi/gestion-rural-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ctxClaims         = "claims"
	ctxUserID         = "userID"
	ctxOrganizationID = "organizationID"
)

type Middleware struct {
	jwtService *services.JWTService
	logger     *zap.Logger
}

func NewMiddleware(jwtService *services.JWTService, logger *zap.Logger) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// RequireAuth validates the Bearer access token and stores the caller in
// the request context.
func (m *Middleware) RequireAuth(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		respondError(c, m.logger, apperror.Unauthorized("Missing bearer token"))
		return
	}

	claims, err := m.jwtService.VerifyAccessToken(strings.TrimSpace(authHeader[7:]))
	if err != nil {
		m.logger.Debug("access token rejected", zap.Error(err))
		respondError(c, m.logger, apperror.Unauthorized("Invalid or expired token"))
		return
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		respondError(c, m.logger, apperror.Unauthorized("Invalid or expired token"))
		return
	}

	c.Set(ctxClaims, claims)
	c.Set(ctxUserID, userID)
	if orgID, err := uuid.Parse(claims.OrganizationID); err == nil {
		c.Set(ctxOrganizationID, orgID)
	}
	c.Next()
}

// RequireOrganization rejects callers whose token carries no organization.
// It must run after RequireAuth.
func (m *Middleware) RequireOrganization(c *gin.Context) {
	if _, ok := c.Get(ctxOrganizationID); !ok {
		respondError(c, m.logger, apperror.Unauthorized("User has no organization"))
		return
	}
	c.Next()
}

func currentUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func currentOrganizationID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ctxOrganizationID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// ZapLogger logs one line per completed request.
func ZapLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if id := currentUserID(c); id != uuid.Nil {
			fields = append(fields, zap.String("user_id", id.String()))
		}
		logger.Info("request completed", fields...)
	}
}

// CORS allows the configured frontend origin and answers preflight requests.
func CORS(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowedOrigin == "*" || origin == allowedOrigin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			c.Header("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
