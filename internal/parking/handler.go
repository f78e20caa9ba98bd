package parking

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/society-admin/backend/internal/apperr"
	"github.com/society-admin/backend/internal/middleware"
	"github.com/society-admin/backend/internal/models"
	"github.com/society-admin/backend/pkg/response"
)

const invalidSetRequest = "Invalid request. slotId and isOccupied are required."

// SetRequest is the body for PATCH /api/parking.
type SetRequest struct {
	SlotID     *int64  `json:"slotId"`
	IsOccupied *bool   `json:"isOccupied"`
	UserID     *string `json:"userId"`
	Name       *string `json:"name"`
}

// Handler handles parking HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a parking handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/parking.
func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Set handles PATCH /api/parking. updated_by is the body userId, else the caller.
func (h *Handler) Set(c *gin.Context) {
	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, invalidSetRequest)
		return
	}

	params := SetOccupancyParams{SlotID: req.SlotID, IsOccupied: req.IsOccupied, OccupantName: req.Name}
	if req.UserID != nil && *req.UserID != "" {
		actor, err := uuid.Parse(*req.UserID)
		if err != nil {
			response.Error(c, apperr.InvalidInput("invalid userId"))
			return
		}
		params.ActorID = &actor
	} else if caller, ok := middleware.UserID(c); ok {
		params.ActorID = &caller
	}

	slot, err := h.svc.SetOccupancy(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"updated": []models.ParkingSlot{*slot}})
}
