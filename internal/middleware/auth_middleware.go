package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Anthanoess/task-app/internal/auth"
	"github.com/Anthanoess/task-app/internal/model"
)

const (
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"
)

// JWTAuthMiddleware rejects requests without a valid bearer token and stores the
// caller's identity in the gin context.
func JWTAuthMiddleware(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		identity, err := tokens.Parse(parts[1])
		if err != nil {
			if err == auth.ErrInvalidClaims {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(UserIDKey, identity.UserID)
		c.Set(UserRoleKey, identity.Role)
		c.Next()
	}
}

// RequireRole must run after JWTAuthMiddleware.
func RequireRole(role model.Role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
			return
		}
		c.Next()
	}
}

// CurrentRole returns the authenticated caller's role, or "" outside the auth group.
func CurrentRole(c *gin.Context) model.Role {
	v, ok := c.Get(UserRoleKey)
	if !ok {
		return ""
	}
	role, _ := v.(model.Role)
	return role
}
