package handler

import (
	"errors"
	"net/http"

	"login-service/internal/auth"
	"login-service/internal/auth/google"
	"login-service/internal/auth/resolver"
	"login-service/internal/logger"

	"github.com/gin-gonic/gin"
)

type googleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

func (h *Handler) GoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	pair, err := h.service.GoogleLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrFederationUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "google login is not configured"})
		case errors.Is(err, google.ErrIdentityRejected),
			errors.Is(err, google.ErrIdentityInvalid),
			errors.Is(err, resolver.ErrIncompleteIdentity):
			logger.Warn("google login rejected", map[string]any{"error": err.Error()})
			c.JSON(http.StatusUnauthorized, gin.H{"error": "google authentication failed"})
		default:
			logger.Error("google login failed", map[string]any{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, pair)
}
