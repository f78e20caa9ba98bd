package parking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/society-admin/backend/internal/models"
)

// ErrNotFound is returned when an update matches no slot.
var ErrNotFound = errors.New("parking slot not found")

// Repository handles parking slot persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a parking repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all slots ordered by slot_number.
func (r *Repository) List(ctx context.Context) ([]models.ParkingSlot, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, slot_number, is_occupied, booked_by_name, updated_by
		FROM parking ORDER BY slot_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]models.ParkingSlot, 0)
	for rows.Next() {
		var s models.ParkingSlot
		if err := rows.Scan(&s.ID, &s.SlotNumber, &s.IsOccupied, &s.BookedByName, &s.UpdatedBy); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// SetOccupancy overwrites the occupancy columns of one slot and returns the stored row.
// There is no version check: the last write wins.
func (r *Repository) SetOccupancy(ctx context.Context, id int64, u models.OccupancyUpdate) (*models.ParkingSlot, error) {
	const q = `UPDATE parking SET is_occupied = $2, booked_by_name = $3, updated_by = $4
		WHERE id = $1
		RETURNING id, slot_number, is_occupied, booked_by_name, updated_by`
	var s models.ParkingSlot
	err := r.pool.QueryRow(ctx, q, id, u.IsOccupied, u.BookedByName, u.UpdatedBy).
		Scan(&s.ID, &s.SlotNumber, &s.IsOccupied, &s.BookedByName, &s.UpdatedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
