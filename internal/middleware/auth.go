package middleware

import (
	"net/http"
	"strings"

	"leadtrack/internal/auth"
	"leadtrack/internal/logger"
	"leadtrack/internal/models"

	"leadtrack/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and stores the claims in the
// request context. Expired tokens are reported distinctly from malformed ones.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, apperrors.CodeInvalidToken, "Authorization header missing or invalid")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			if apperrors.Is(err, auth.ErrTokenExpired) {
				abortUnauthorized(c, apperrors.CodeTokenExpired, "Token expired")
				return
			}
			abortUnauthorized(c, apperrors.CodeInvalidToken, "Invalid token")
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequirePermission gates the route on the role policy table.
func RequirePermission(action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, apperrors.ErrorResponse{
				Error: apperrors.NewForbiddenError("Access denied: no role"),
			})
			return
		}

		if !auth.Can(role, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, apperrors.ErrorResponse{
				Error: apperrors.NewForbiddenError("Access denied: insufficient permissions"),
			})
			return
		}

		c.Next()
	}
}

// GetUserID extracts the authenticated user id from the Gin context.
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}

// GetRole extracts the authenticated role from the Gin context.
func GetRole(c *gin.Context) models.UserRole {
	roleVal, exists := c.Get("role")
	if !exists {
		return ""
	}

	roleStr, ok := roleVal.(string)
	if !ok {
		return ""
	}

	return models.UserRole(roleStr)
}

func abortUnauthorized(c *gin.Context, code apperrors.ErrorCode, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: apperrors.New(code, "auth", message, http.StatusUnauthorized),
	})
}
