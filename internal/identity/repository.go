// Package identity stores authentication credentials, separate from profile records.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/society-admin/backend/internal/models"
	"github.com/society-admin/backend/pkg/utils"
)

const pgUniqueViolation = "23505"

var (
	// ErrEmailRegistered is returned by Create when the email already has a credential.
	ErrEmailRegistered = errors.New("a user with this email address has already been registered")
	// ErrNotFound is returned when no credential matches.
	ErrNotFound = errors.New("credential not found")
	// ErrInvalidCredentials is returned by Authenticate on unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Credential is an identity-store entry.
type Credential struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository handles credential persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an identity repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create hashes the password and inserts a new credential.
func (r *Repository) Create(ctx context.Context, email, password string) (*Credential, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	const q = `INSERT INTO credentials (id, email, password_hash)
		VALUES (gen_random_uuid(), $1, $2)
		RETURNING id, email, password_hash, created_at`
	var c Credential
	err = r.pool.QueryRow(ctx, q, models.NormalizeEmail(email), hash).
		Scan(&c.ID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrEmailRegistered
		}
		return nil, err
	}
	return &c, nil
}

// GetByEmail returns the credential registered for email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	const q = `SELECT id, email, password_hash, created_at FROM credentials WHERE email = $1`
	return r.scanOne(ctx, q, models.NormalizeEmail(email))
}

// GetByID returns a credential by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Credential, error) {
	const q = `SELECT id, email, password_hash, created_at FROM credentials WHERE id = $1`
	return r.scanOne(ctx, q, id)
}

// Delete removes a credential. ErrNotFound when nothing was deleted.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM credentials WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Authenticate checks email and password against the stored hash.
func (r *Repository) Authenticate(ctx context.Context, email, password string) (*Credential, error) {
	c, err := r.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(password, c.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return c, nil
}

func (r *Repository) scanOne(ctx context.Context, q string, arg interface{}) (*Credential, error) {
	var c Credential
	err := r.pool.QueryRow(ctx, q, arg).Scan(&c.ID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
