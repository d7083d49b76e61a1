package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mekaniko-ph/mekaniko-backend/internal/domain/valueobject"
	"github.com/mekaniko-ph/mekaniko-backend/internal/service"
)

// ContextAuthKey stores the caller's resolved auth context in gin.Context.
const ContextAuthKey = "authContext"

// AuthMiddleware verifies the JWT access token and attaches the caller's
// account id and role set for the handlers.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		accountID, roleNames, err := tokens.ParseAccess(raw)
		if err != nil || accountID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		roles := make([]valueobject.Role, 0, len(roleNames))
		for _, name := range roleNames {
			role := valueobject.Role(name)
			if role.IsValid() {
				roles = append(roles, role)
			}
		}

		c.Set(ContextAuthKey, valueobject.AuthContext{AccountID: accountID, Roles: roles})
		c.Next()
	}
}
