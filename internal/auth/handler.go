package auth

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/society-admin/backend/internal/apperr"
	"github.com/society-admin/backend/internal/identity"
	"github.com/society-admin/backend/internal/middleware"
	"github.com/society-admin/backend/internal/models"
	"github.com/society-admin/backend/pkg/response"
)

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserView is the caller as shown to the dashboard.
type UserView struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// TokenResponse is the login response.
type TokenResponse struct {
	Token    string   `json:"token"`
	User     UserView `json:"user"`
	Redirect string   `json:"redirect"`
}

// MenuItem is a dashboard section visible to a role.
type MenuItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// MeResponse is the body for GET /auth/me.
type MeResponse struct {
	UserView
	Menu []MenuItem `json:"menu"`
}

// Authenticator verifies credentials against the identity store.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*identity.Credential, error)
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	creds  Authenticator
	roles  middleware.RoleResolver
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(creds Authenticator, roles middleware.RoleResolver, jwt *JWTService, logger *zap.Logger) *Handler {
	return &Handler{creds: creds, roles: roles, jwt: jwt, logger: logger}
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email and password are required")
		return
	}

	cred, err := h.creds.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		response.Unauthorized(c, "invalid email or password")
		return
	}
	if err != nil {
		h.logger.Error("authenticate", zap.Error(err))
		response.Error(c, apperr.Storage(err))
		return
	}

	role, err := h.roles.Resolve(c.Request.Context(), cred.ID)
	if err != nil {
		h.writeRoleError(c, err)
		return
	}

	token, err := h.jwt.Generate(cred.ID, cred.Email)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	response.OK(c, TokenResponse{
		Token:    token,
		User:     UserView{ID: cred.ID.String(), Email: cred.Email, Role: role},
		Redirect: DashboardPath(role),
	})
}

// Me handles GET /auth/me. The role is resolved again on every call.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "missing user context")
		return
	}
	role, err := h.roles.Resolve(c.Request.Context(), userID)
	if err != nil {
		h.writeRoleError(c, err)
		return
	}
	response.OK(c, MeResponse{
		UserView: UserView{ID: userID.String(), Email: middleware.UserEmail(c), Role: role},
		Menu:     Menu(role),
	})
}

func (h *Handler) writeRoleError(c *gin.Context, err error) {
	var notFound *apperr.NotFoundError
	if errors.As(err, &notFound) {
		response.Forbidden(c, notFound.Message)
		return
	}
	h.logger.Error("resolve role", zap.Error(err))
	response.Error(c, err)
}

// DashboardPath is the landing page for a role.
func DashboardPath(role models.Role) string {
	if role == models.RoleSuperadmin {
		return "/dashboard/superadmin"
	}
	return "/dashboard/manager"
}

// Menu lists the dashboard sections a role may open.
func Menu(role models.Role) []MenuItem {
	items := []MenuItem{
		{Label: "Parking", Path: "/dashboard/parking"},
		{Label: "Amenities", Path: "/dashboard/amenities"},
	}
	if role == models.RoleSuperadmin {
		items = append([]MenuItem{{Label: "Users", Path: "/dashboard/superadmin/users"}}, items...)
	}
	return items
}
