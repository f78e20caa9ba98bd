package amenities

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/society-admin/backend/internal/models"
)

// ErrNotFound is returned when an update matches no amenity.
var ErrNotFound = errors.New("amenity not found")

// Repository handles amenity persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an amenities repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all amenities ordered by order_index.
func (r *Repository) List(ctx context.Context) ([]models.Amenity, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, order_index FROM amenities ORDER BY order_index ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]models.Amenity, 0)
	for rows.Next() {
		var a models.Amenity
		if err := rows.Scan(&a.ID, &a.Name, &a.OrderIndex); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// SetOrderIndex writes order_index for one amenity.
func (r *Repository) SetOrderIndex(ctx context.Context, id int64, index int) error {
	tag, err := r.pool.Exec(ctx, `UPDATE amenities SET order_index = $2 WHERE id = $1`, id, index)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Rename updates only the name of one amenity.
func (r *Repository) Rename(ctx context.Context, id int64, name string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE amenities SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
