package profile

import (
	"errors"
	"net/http"
	"time"

	"login-service/internal/auth"
	"login-service/internal/logger"
	"login-service/internal/middleware"
	"login-service/internal/user"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service     *Service
	authService *auth.Service
}

func NewHandler(service *Service, authService *auth.Service) *Handler {
	return &Handler{service: service, authService: authService}
}

// RegisterRoutes mounts the profile surface; every route requires a
// bearer access token.
func (h *Handler) RegisterRoutes(r *gin.Engine, authMW *middleware.AuthMiddleware) {
	g := r.Group("/profile")
	g.Use(authMW.RequireAuth())
	g.GET("/me", h.Me)
	g.PUT("/me", h.UpdateMe)
	g.PUT("/password", h.ChangePassword)
}

// profileResponse merges the account and its profile row.
type profileResponse struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username,omitempty"`
	Nickname   string    `json:"nickname,omitempty"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func newProfileResponse(u *user.User, p *Profile) profileResponse {
	return profileResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Nickname:   p.Nickname,
		AvatarURL:  p.AvatarURL,
		Bio:        p.Bio,
		Phone:      p.Phone,
		IsActive:   u.Active,
		IsVerified: u.Verified,
		CreatedAt:  u.CreatedAt,
	}
}

func (h *Handler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	p, err := h.service.Get(c.Request.Context(), u.ID)
	if err != nil {
		logger.Error("get profile failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(u, p))
}

type updateRequest struct {
	Username  *string `json:"username" binding:"omitempty,min=3,max=50"`
	Nickname  *string `json:"nickname" binding:"omitempty,max=100"`
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
	Phone     *string `json:"phone" binding:"omitempty,max=20"`
}

func (h *Handler) UpdateMe(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.service.Apply(c.Request.Context(), u, Update{
		Username:  req.Username,
		Nickname:  req.Nickname,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
		Phone:     req.Phone,
	})
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already taken"})
			return
		}
		logger.Error("update profile failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(u, p))
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=100"`
}

func (h *Handler) ChangePassword(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), u, req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		logger.Error("change password failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed successfully"})
}
