// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"

	"propman-service/internal/domain/identity"
	xerrors "propman-service/internal/pkg/errors"
	"propman-service/internal/pkg/response"
	"propman-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *auth.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *auth.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login authenticates an admin and returns an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), c.ClientIP(), &req)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, "login successful", result)
	case errors.Is(err, xerrors.ErrRateLimited):
		response.Error(c, http.StatusTooManyRequests, "too many login attempts", nil)
	case errors.Is(err, xerrors.ErrUnauthorized):
		response.Unauthorized(c, "invalid credentials")
	default:
		h.logger.Error("login failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "login failed", nil)
	}
}
