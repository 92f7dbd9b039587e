// api/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"example.com/backstage/services/deliverynote/internal/auth"
	"example.com/backstage/services/deliverynote/internal/models"
	"example.com/backstage/services/deliverynote/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserContextKey is the gin context key the authenticated user is stored
// under
const UserContextKey = "user"

// JWTAuth middleware validates bearer tokens and loads the requesting user.
// The user, with their company preloaded, is placed on the context for the
// handlers' ownership checks.
func JWTAuth(secret string, repo repository.Repository, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid Authorization header format. Expected: 'Bearer {token}'",
			})
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(secret, parts[1])
		if err != nil {
			log.WithError(err).Warn("Invalid token")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		user, err := repo.FindUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			log.WithError(err).Warn("Token for unknown user")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user from the gin context
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(UserContextKey)
	if !ok {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
