package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/society-admin/backend/internal/apperr"
	"github.com/society-admin/backend/internal/models"
	"github.com/society-admin/backend/pkg/response"
)

// RoleResolver fetches a user's current role.
type RoleResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (models.Role, error)
}

// ResolveRole looks the caller's role up on every request and stores it in context.
// Must run after JWT.
func ResolveRole(resolver RoleResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		role, err := resolver.Resolve(c.Request.Context(), userID)
		if err != nil {
			var notFound *apperr.NotFoundError
			if errors.As(err, &notFound) {
				response.Forbidden(c, err.Error())
			} else {
				logger.Error("resolve role", zap.String("user_id", userID.String()), zap.Error(err))
				response.Error(c, err)
			}
			c.Abort()
			return
		}
		c.Set(ContextUserRole, role)
		c.Next()
	}
}

// RequireRole returns a middleware that allows only the given roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{})
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role, ok := Role(c)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Role returns the role resolved for this request.
func Role(c *gin.Context) (models.Role, bool) {
	v, ok := c.Get(ContextUserRole)
	if !ok {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}
