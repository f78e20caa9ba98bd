package amenities

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/society-admin/backend/internal/apperr"
	"github.com/society-admin/backend/pkg/response"
)

// ReorderRequest is the body for POST /api/amenities/reorder.
// OrderedIDs stays raw so a non-array value reaches validation instead of failing the bind.
type ReorderRequest struct {
	OrderedIDs json.RawMessage `json:"orderedIds"`
}

// RenameRequest is the body for PATCH /api/amenities.
type RenameRequest struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
}

// Handler handles amenity HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates an amenities handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/amenities.
func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Reorder handles POST /api/amenities/reorder.
func (h *Handler) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.svc.Reorder(c.Request.Context(), decodeIDs(req.OrderedIDs)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Rename handles PATCH /api/amenities.
func (h *Handler) Rename(c *gin.Context) {
	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.ID == nil || req.Name == nil {
		response.Error(c, apperr.InvalidInput("id and name are required"))
		return
	}
	if err := h.svc.Rename(c.Request.Context(), *req.ID, *req.Name); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// decodeIDs returns nil unless raw is a JSON array of integers.
func decodeIDs(raw json.RawMessage) []int64 {
	if len(raw) == 0 {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil
	}
	return ids
}
