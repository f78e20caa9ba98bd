// Package parking toggles occupancy of the society's fixed set of parking slots.
package parking

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/society-admin/backend/internal/apperr"
	"github.com/society-admin/backend/internal/models"
)

// Store is the persistence the service writes through.
type Store interface {
	List(ctx context.Context) ([]models.ParkingSlot, error)
	SetOccupancy(ctx context.Context, id int64, u models.OccupancyUpdate) (*models.ParkingSlot, error)
}

// SetOccupancyParams is the input of a set-occupancy call.
// SlotID and IsOccupied are pointers so that absent fields can be told apart from zero values.
type SetOccupancyParams struct {
	SlotID       *int64
	IsOccupied   *bool
	OccupantName *string
	ActorID      *uuid.UUID
}

// Service is the writer of slot occupancy state.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a parking service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// List returns all slots ordered by slot_number.
func (s *Service) List(ctx context.Context) ([]models.ParkingSlot, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return list, nil
}

// SetOccupancy occupies or releases a slot.
//
// The occupant name is kept only when occupying; releasing always clears it.
// This is last-writer-wins: two concurrent bookings of the same free slot
// both succeed and the later write's name is what remains.
func (s *Service) SetOccupancy(ctx context.Context, p SetOccupancyParams) (*models.ParkingSlot, error) {
	if p.SlotID == nil || p.IsOccupied == nil {
		return nil, apperr.InvalidInput("Invalid request. slotId and isOccupied are required.")
	}

	update := models.OccupancyUpdate{
		IsOccupied: *p.IsOccupied,
		UpdatedBy:  p.ActorID,
	}
	if update.IsOccupied && p.OccupantName != nil {
		if name := strings.TrimSpace(*p.OccupantName); name != "" {
			update.BookedByName = &name
		}
	}

	slot, err := s.store.SetOccupancy(ctx, *p.SlotID, update)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("parking slot %d not found", *p.SlotID)
	}
	if err != nil {
		s.logger.Error("set slot occupancy failed", zap.Int64("slot_id", *p.SlotID), zap.Error(err))
		return nil, apperr.Storage(err)
	}
	s.logger.Info("slot occupancy updated",
		zap.Int64("slot_id", slot.ID),
		zap.Int("slot_number", slot.SlotNumber),
		zap.Bool("is_occupied", slot.IsOccupied),
	)
	return slot, nil
}
