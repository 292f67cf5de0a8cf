package handler

import (
	"net/http"
	"time"

	"login-service/internal/auth"
	"login-service/internal/middleware"
	"login-service/internal/user"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service        *auth.Service
	googleEnabled  bool
	googleClientID string
}

func NewHandler(service *auth.Service, googleClientID string) *Handler {
	return &Handler{
		service:        service,
		googleEnabled:  googleClientID != "",
		googleClientID: googleClientID,
	}
}

// RegisterRoutes mounts the auth surface. Protected routes require a
// bearer access token.
func (h *Handler) RegisterRoutes(r *gin.Engine, authMW *middleware.AuthMiddleware) {
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/google", h.GoogleLogin)
	r.POST("/auth/refresh", h.Refresh)
	r.GET("/auth/config", h.Config)

	protected := r.Group("/auth")
	protected.Use(authMW.RequireAuth())
	protected.GET("/me", h.Me)
}

// userResponse is the account body returned to clients. The password
// hash never leaves the server.
type userResponse struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username,omitempty"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func newUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		IsActive:   u.Active,
		IsVerified: u.Verified,
		CreatedAt:  u.CreatedAt,
	}
}

// Me returns the account of the authenticated caller.
func (h *Handler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, newUserResponse(u))
}

// Config tells the frontend whether Google login is available.
func (h *Handler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"google_oauth_enabled": h.googleEnabled,
		"google_client_id":     h.googleClientID,
	})
}
