// Package profiles stores the users{id,email,role} profile records.
package profiles

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/society-admin/backend/internal/models"
)

// ErrNotFound is returned when no profile exists for an ID.
var ErrNotFound = errors.New("profile not found")

// Repository handles profile persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a profiles repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByID returns a profile. The role is returned as stored; callers parse it.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const q = `SELECT id, email, COALESCE(role, '') FROM users WHERE id = $1`
	var u models.User
	var role string
	err := r.pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.Email, &role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

// ListByRole returns all profiles with the given role, ordered by email.
func (r *Repository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, email, role FROM users WHERE role = $1 ORDER BY email`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &role); err != nil {
			return nil, err
		}
		u.Role = models.Role(role)
		list = append(list, u)
	}
	return list, rows.Err()
}

// Insert creates a profile record.
func (r *Repository) Insert(ctx context.Context, u models.User) error {
	const q = `INSERT INTO users (id, email, role) VALUES ($1, $2, $3)`
	_, err := r.pool.Exec(ctx, q, u.ID, models.NormalizeEmail(u.Email), string(u.Role))
	return err
}

// Delete removes a profile record. ErrNotFound when nothing was deleted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
