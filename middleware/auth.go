package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/printhaus/printhaus-api/models"
	"github.com/printhaus/printhaus-api/storage"
)

// UsernameHeader carries the caller's identity. Authentication proper
// (sessions, passwords, tokens) is handled outside this service; by the
// time a request reaches us the identity header holds a validated
// username, so the middleware only resolves and role-gates it.
const UsernameHeader = "X-Username"

const currentUserKey = "current_user"

// AuthError represents an authentication or authorization failure
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// Identify resolves the identity header against the user registry and
// stores the user in the request context. Requests without a known user
// are rejected.
func Identify(users *storage.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := strings.TrimSpace(c.GetHeader(UsernameHeader))
		if username == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_IDENTITY",
					"message": "The " + UsernameHeader + " header is required",
				},
			})
			return
		}

		user := users.GetByUsername(username)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNKNOWN_USER",
					"message": "No user profile exists for this identity",
				},
			})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireAdmin rejects requests whose resolved user is not an admin. Must
// run after Identify.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetCurrentUser(c)
		if err != nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Admin role required",
				},
			})
			return
		}
		c.Next()
	}
}

// GetCurrentUser extracts the resolved user from the Gin context
func GetCurrentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_USER", Message: "User not found in context"}
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil, &AuthError{Code: "INVALID_USER", Message: "User in context has wrong type"}
	}
	return user, nil
}
