package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"reviewhub/internal/api/apierr"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/permission"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"
)

const userContextKey = "user"

// Authenticate resolves the bearer token into a user and stores it in the
// gin context. A missing header leaves the request anonymous; a present but
// invalid token is rejected with 401 even on read-only endpoints.
func Authenticate(authService service.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			apierr.Abort(c, apierr.Unauthorized("invalid authorization header format"))
			return
		}

		userID, err := authService.ValidateAccessToken(parts[1])
		if err != nil {
			apierr.Abort(c, apierr.Unauthorized("invalid token"))
			return
		}

		// The token only carries the user id; role and username are read
		// fresh so role changes take effect immediately.
		user, err := userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			// Only a missing row means the token's subject is gone; a store
			// outage must not masquerade as a revoked token.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierr.Abort(c, apierr.Unauthorized("user no longer exists"))
				return
			}
			apierr.Abort(c, err)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// Require evaluates the endpoint's permission predicates in order and
// rejects the request on the first failure.
func Require(perms ...permission.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := permission.Request{Method: c.Request.Method, User: CurrentUser(c)}
		if err := permission.Check(req, perms...); err != nil {
			apierr.Abort(c, err)
			return
		}
		c.Next()
	}
}
