package auth

import (
	"context"
	"net/http"
	"strings"

	"vox-populi/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const actorKey = "actor"

// Provisioner records identities the first time they are seen
type Provisioner interface {
	Provision(ctx context.Context, actor *services.Actor) error
}

// Authenticate resolves the caller from a Bearer token. Requests without an
// Authorization header continue as anonymous; a malformed or invalid token
// is rejected with 401.
func Authenticate(tokens *TokenManager, provisioner Provisioner, log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format. Expected: Bearer <token>",
			})
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			log.WithError(err).Debug("token validation failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		actor := &services.Actor{UserID: claims.UserID, Username: claims.Username, IsStaff: claims.IsStaff}
		if err := provisioner.Provision(c.Request.Context(), actor); err != nil {
			log.WithError(err).WithField("user_id", actor.UserID).Error("failed to provision user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			return
		}

		c.Set(actorKey, actor)
		c.Set("user_id", actor.UserID)
		c.Next()
	}
}

// RequireAuth rejects anonymous callers with 401
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentActor(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": services.ErrUnauthenticated.Error(),
			})
			return
		}
		c.Next()
	}
}

// RequireStaff rejects anonymous callers with 401 and non-staff with 403
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := CurrentActor(c)
		if actor == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": services.ErrUnauthenticated.Error(),
			})
			return
		}
		if !actor.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": services.ErrForbidden.Error(),
			})
			return
		}
		c.Next()
	}
}

// CurrentActor returns the authenticated caller, or nil when anonymous
func CurrentActor(c *gin.Context) *services.Actor {
	value, exists := c.Get(actorKey)
	if !exists {
		return nil
	}
	actor, _ := value.(*services.Actor)
	return actor
}

// GetUserID retrieves the user ID from the context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint)
	return id, ok
}
