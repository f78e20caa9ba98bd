package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/society-admin/backend/pkg/response"
)

const (
	// ContextUserID is the key for the caller's user ID (uuid.UUID) in gin context.
	ContextUserID = "user_id"
	// ContextUserEmail is the key for the caller's email in gin context.
	ContextUserEmail = "user_email"
	// ContextUserRole is the key for the role resolved for this request.
	ContextUserRole = "user_role"
)

// TokenValidator validates a bearer token and returns the subject it names.
type TokenValidator func(token string) (userID uuid.UUID, email string, err error)

// JWT returns a middleware that validates the bearer token and sets the caller's identity in context.
// The token never carries a role; see ResolveRole.
func JWT(validate TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		userID, email, err := validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextUserID, userID)
		c.Set(ContextUserEmail, email)
		c.Next()
	}
}

// UserID returns the authenticated caller's ID.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// UserEmail returns the authenticated caller's email.
func UserEmail(c *gin.Context) string {
	return c.GetString(ContextUserEmail)
}
