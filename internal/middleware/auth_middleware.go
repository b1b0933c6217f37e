package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smarttransit/booking-backend/internal/models"
	"github.com/smarttransit/booking-backend/pkg/token"
)

// UserContextKey is the key used to store user information in Gin context
const UserContextKey = "user"

// UserContext represents the authenticated caller's identity
type UserContext struct {
	UserID uuid.UUID        `json:"user_id"`
	Role   models.AdminRole `json:"role,omitempty"` // empty for passengers
}

// IsAdmin returns true when the caller carries a back office role.
func (u UserContext) IsAdmin() bool {
	return u.Role.IsValid()
}

// AuthMiddleware creates a middleware that validates JWT tokens
func AuthMiddleware(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization header is required",
				"code":    "MISSING_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid authorization header format. Expected: Bearer <token>",
				"code":    "INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		claims, err := tokens.Validate(tokenString)
		if err != nil {
			if tokens.IsExpired(tokenString) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "token_expired",
					"message": "Access token has expired",
					"code":    "TOKEN_EXPIRED",
				})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "invalid_token",
					"message": "Invalid access token",
					"code":    "INVALID_TOKEN",
				})
			}
			c.Abort()
			return
		}

		c.Set(UserContextKey, UserContext{
			UserID: claims.UserID,
			Role:   models.AdminRole(claims.Role),
		})
		c.Next()
	}
}

// RequireRefundApproval restricts an endpoint to roles that may decide
// refund requests.
func RequireRefundApproval() gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "User context not found. Auth middleware may not be applied.",
				"code":    "MISSING_USER_CONTEXT",
			})
			c.Abort()
			return
		}

		if !userCtx.Role.CanApproveRefunds() {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Your role cannot decide refund requests",
				"code":    "INSUFFICIENT_PERMISSIONS",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireScheduleAccess restricts an endpoint to roles that manage
// schedules and seat pools.
func RequireScheduleAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "User context not found. Auth middleware may not be applied.",
				"code":    "MISSING_USER_CONTEXT",
			})
			c.Abort()
			return
		}

		if !userCtx.Role.HasScheduleAccess() {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Your role cannot manage schedules",
				"code":    "INSUFFICIENT_PERMISSIONS",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserContext retrieves the user context from Gin context
func GetUserContext(c *gin.Context) (UserContext, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return UserContext{}, false
	}
	userCtx, ok := value.(UserContext)
	if !ok {
		return UserContext{}, false
	}
	return userCtx, true
}
