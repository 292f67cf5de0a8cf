package middleware

import (
	"net/http"
	"strings"
	"time"

	"login-service/internal/auth/token"
	"login-service/internal/user"

	"github.com/gin-gonic/gin"
)

const userContextKey = "authenticatedUser"

// CurrentUser extracts the authenticated account set by RequireAuth.
func CurrentUser(c *gin.Context) (*user.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*user.User)
	return u, ok
}

// AuthMiddleware authenticates requests with a bearer access token.
type AuthMiddleware struct {
	codec *token.Codec
	users user.Repository
}

func NewAuthMiddleware(codec *token.Codec, users user.Repository) *AuthMiddleware {
	return &AuthMiddleware{codec: codec, users: users}
}

// RequireAuth verifies the Authorization header carries a valid access
// token for an existing, active account and stores that account in the
// request context. A refresh token is never accepted here.
func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		claims, err := a.codec.Verify(raw, time.Now())
		if err != nil || claims.Kind != string(token.KindAccess) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		id, err := claims.AccountID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		u, err := a.users.FindByID(c.Request.Context(), id)
		if err != nil || !u.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(userContextKey, u)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
