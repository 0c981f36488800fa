package middleware

import (
	"net/http"
	"strings"

	"restaurant_backend/internal/access"
	"restaurant_backend/internal/models"
	"restaurant_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// TokenValidator verifies a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*utils.Claims, error)
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No token, authorization denied", ""))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized,
				"Invalid authorization header format. Use Bearer <token>", ""))
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			utils.LogDebug("Rejected bearer token", map[string]interface{}{"error": err.Error()})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Token is not valid", ""))
			return
		}
		role, ok := models.ParseRole(claims.Role)
		if !ok {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Token is not valid", ""))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, role)
		c.Next()
	}
}

// RequirePermission rejects callers whose role lacks perm. It must run after AuthMiddleware.
func RequirePermission(perm access.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextUserRole)
		if !ok {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No token, authorization denied", ""))
			return
		}
		r, _ := role.(models.Role)
		if !access.Can(r, perm) {
			utils.LogWarn("Permission denied", map[string]interface{}{
				"role": r, "permission": perm.String(), "path": c.Request.URL.Path,
			})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Access denied", ""))
			return
		}
		c.Next()
	}
}
