package handlers

import (
	"net/http"

	"github.com/TomasElordi/gestion-rural-api/internal/models"
	"github.com/TomasElordi/gestion-rural-api/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService services.IAuthService
	middleware  *Middleware
	logger      *zap.Logger
}

func NewAuthHandler(authService services.IAuthService, middleware *Middleware, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		authService: authService,
		middleware:  middleware,
		logger:      logger,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.Engine) {
	authGrPub := router.Group("/api/v1/auth")
	authGrPub.POST("/register", h.Register)
	authGrPub.POST("/login", h.Login)
	authGrPub.POST("/refresh", h.Refresh)

	authGrPro := router.Group("/api/v1", h.middleware.RequireAuth)
	authGrPro.POST("/auth/logout", h.Logout)
	authGrPro.GET("/organizations/me", h.GetMyOrganization)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	tokens, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusCreated, tokens)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	tokens, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, tokens)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	tokens, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, tokens)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) GetMyOrganization(c *gin.Context) {
	org, err := h.authService.GetMyOrganization(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c, http.StatusOK, org)
}
