package managers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/society-admin/backend/internal/apperr"
	"github.com/society-admin/backend/internal/middleware"
	"github.com/society-admin/backend/pkg/response"
)

// CreateRequest is the body for POST /api/managers.
type CreateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DeleteRequest is the body for DELETE /api/managers.
// RequesterID defaults to the authenticated caller.
type DeleteRequest struct {
	ID          string `json:"id"`
	RequesterID string `json:"requesterId"`
}

// Handler handles manager HTTP endpoints. All routes are superadmin-only.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a managers handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// List handles GET /api/managers.
func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.ListManagers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"managers": list})
}

// Create handles POST /api/managers.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email and password are required")
		return
	}
	res, err := h.svc.CreateManager(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": res.Message()})
}

// Delete handles DELETE /api/managers.
func (h *Handler) Delete(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "User ID and requester ID required")
		return
	}
	caller, _ := middleware.UserID(c)

	targetID, err := parseOptionalID(req.ID)
	if err != nil {
		response.Error(c, apperr.InvalidInput("invalid user id"))
		return
	}
	requesterID := caller
	if req.RequesterID != "" {
		if requesterID, err = uuid.Parse(req.RequesterID); err != nil {
			response.Error(c, apperr.InvalidInput("invalid requester id"))
			return
		}
		if caller != uuid.Nil && requesterID != caller {
			h.logger.Warn("requester id does not match token",
				zap.String("caller", caller.String()), zap.String("requester_id", requesterID.String()))
			response.Error(c, apperr.Forbidden("Only superadmin can delete managers"))
			return
		}
	}

	if err := h.svc.DeleteManager(c.Request.Context(), targetID, requesterID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": MessageDeleted})
}

func parseOptionalID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}
