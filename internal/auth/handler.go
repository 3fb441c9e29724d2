package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"hostel-service/internal/crud"

	"github.com/gin-gonic/gin"
)

// LoginRecorder counts login attempts.
type LoginRecorder interface {
	RecordLogin(ctx context.Context, success bool)
}

type Handler struct {
	service      *Service
	logger       *slog.Logger
	metrics      LoginRecorder
	secureCookie bool
}

func NewHandler(service *Service, logger *slog.Logger, metrics LoginRecorder, secureCookie bool) *Handler {
	return &Handler{
		service:      service,
		logger:       logger,
		metrics:      metrics,
		secureCookie: secureCookie,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/auth/login", h.Login)
	router.POST("/auth/logout", h.Logout)
}

func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := crud.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.Login(ctx, req)
	if err != nil {
		h.metrics.RecordLogin(ctx, false)
		if errors.Is(err, ErrInvalidCredentials) {
			h.logger.WarnContext(ctx, "login rejected", "email", req.Email)
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.logger.ErrorContext(ctx, "login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.metrics.RecordLogin(ctx, true)
	h.logger.InfoContext(ctx, "administrator logged in", "email", req.Email)
	setCookie(c, resp.AccessToken, resp.ExpiresAt, h.secureCookie)
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Logout(c *gin.Context) {
	clearCookie(c, h.secureCookie)
	c.Status(http.StatusNoContent)
}
