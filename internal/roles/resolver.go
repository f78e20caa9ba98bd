// Package roles resolves a caller's role from their profile record.
// Results are never cached; each call reads the profile store.
package roles

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/society-admin/backend/internal/apperr"
	"github.com/society-admin/backend/internal/models"
	"github.com/society-admin/backend/internal/profiles"
)

// RoleNotFoundMessage is shown to end users whose profile or role is missing.
const RoleNotFoundMessage = "Role not found. Please contact admin."

// ProfileReader reads a single profile record.
type ProfileReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Resolver looks up roles.
type Resolver struct {
	profiles ProfileReader
}

// NewResolver creates a role resolver over the profile store.
func NewResolver(p ProfileReader) *Resolver {
	return &Resolver{profiles: p}
}

// Resolve returns the role stored for userID.
// A missing profile or an absent/unknown role is a NotFoundError; store failures are StorageErrors.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID) (models.Role, error) {
	if userID == uuid.Nil {
		return "", apperr.NotFound(RoleNotFoundMessage)
	}
	u, err := r.profiles.GetByID(ctx, userID)
	if errors.Is(err, profiles.ErrNotFound) {
		return "", apperr.NotFound(RoleNotFoundMessage)
	}
	if err != nil {
		return "", apperr.Storage(err)
	}
	role, ok := models.ParseRole(string(u.Role))
	if !ok {
		return "", apperr.NotFound(RoleNotFoundMessage)
	}
	return role, nil
}

// Authorize resolves userID and checks the role against allowed.
// Anything that does not resolve to an allowed role is Forbidden, except store failures.
func (r *Resolver) Authorize(ctx context.Context, userID uuid.UUID, allowed ...models.Role) (models.Role, error) {
	role, err := r.Resolve(ctx, userID)
	if err != nil {
		var notFound *apperr.NotFoundError
		if errors.As(err, &notFound) {
			return "", apperr.Forbidden("insufficient permissions")
		}
		return "", err
	}
	for _, a := range allowed {
		if role == a {
			return role, nil
		}
	}
	return "", apperr.Forbidden("insufficient permissions")
}
