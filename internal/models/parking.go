package models

import "github.com/google/uuid"

// ParkingSlot is a pre-provisioned slot. BookedByName is set only while IsOccupied is true.
type ParkingSlot struct {
	ID           int64      `json:"id"`
	SlotNumber   int        `json:"slot_number"`
	IsOccupied   bool       `json:"is_occupied"`
	BookedByName *string    `json:"booked_by_name"`
	UpdatedBy    *uuid.UUID `json:"updated_by"`
}

// OccupancyUpdate is the state written by a set-occupancy call.
type OccupancyUpdate struct {
	IsOccupied   bool
	BookedByName *string
	UpdatedBy    *uuid.UUID
}
