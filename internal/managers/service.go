// Package managers provisions, lists and removes manager accounts, keeping the
// identity store and the profile store reconciled.
package managers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/society-admin/backend/internal/apperr"
	"github.com/society-admin/backend/internal/identity"
	"github.com/society-admin/backend/internal/models"
	"github.com/society-admin/backend/internal/profiles"
)

const (
	MessageCreated        = "Manager created successfully"
	MessageAlreadyExisted = "User already existed and added to manager list."
	MessageDeleted        = "Manager deleted successfully"
)

// ErrCredentialPresent is returned by RemoveResidualProfile when the credential still exists.
var ErrCredentialPresent = errors.New("credential still present; profile is not residual")

// CredentialStore is the identity-store surface used for provisioning.
type CredentialStore interface {
	Create(ctx context.Context, email, password string) (*identity.Credential, error)
	GetByEmail(ctx context.Context, email string) (*identity.Credential, error)
	GetByID(ctx context.Context, id uuid.UUID) (*identity.Credential, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProfileStore is the profile-store surface used for provisioning.
type ProfileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	Insert(ctx context.Context, u models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Authorizer checks a requester's freshly resolved role.
type Authorizer interface {
	Authorize(ctx context.Context, userID uuid.UUID, allowed ...models.Role) (models.Role, error)
}

// CleanupScheduler queues removal of a profile left behind by a partial delete.
type CleanupScheduler interface {
	EnqueueProfileCleanup(ctx context.Context, userID uuid.UUID) error
}

// Outcome distinguishes a fresh account from a reconciled existing one.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeAlreadyExisted
)

// CreateResult is the success result of provisioning.
type CreateResult struct {
	ID      uuid.UUID
	Email   string
	Outcome Outcome
	// Linked is true when a missing profile was inserted for an existing credential.
	Linked bool
}

// Message is the user-facing text for the result.
func (r CreateResult) Message() string {
	if r.Outcome == OutcomeAlreadyExisted {
		return MessageAlreadyExisted
	}
	return MessageCreated
}

// Service is the sole writer of manager accounts.
type Service struct {
	credentials CredentialStore
	profiles    ProfileStore
	authz       Authorizer
	cleanup     CleanupScheduler
	logger      *zap.Logger
}

// NewService creates a provisioning service. cleanup may be nil.
func NewService(credentials CredentialStore, profileStore ProfileStore, authz Authorizer, cleanup CleanupScheduler, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		credentials: credentials,
		profiles:    profileStore,
		authz:       authz,
		cleanup:     cleanup,
		logger:      logger,
	}
}

// ListManagers returns every profile with role manager, projected to {id, email}.
func (s *Service) ListManagers(ctx context.Context) ([]models.ManagerPublic, error) {
	users, err := s.profiles.ListByRole(ctx, models.RoleManager)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	out := make([]models.ManagerPublic, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToManagerPublic())
	}
	return out, nil
}

// CreateManager provisions a manager account. An email that is already
// registered is reconciled rather than rejected: the missing profile is
// inserted if needed and the result reports OutcomeAlreadyExisted.
func (s *Service) CreateManager(ctx context.Context, email, password string) (*CreateResult, error) {
	return s.provision(ctx, email, password, models.RoleManager)
}

// EnsureSuperadmin provisions the bootstrap superadmin with the same reconciliation as CreateManager.
func (s *Service) EnsureSuperadmin(ctx context.Context, email, password string) (*CreateResult, error) {
	return s.provision(ctx, email, password, models.RoleSuperadmin)
}

func (s *Service) provision(ctx context.Context, email, password string, role models.Role) (*CreateResult, error) {
	email = models.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, apperr.InvalidInput("Email and password are required")
	}

	cred, err := s.credentials.Create(ctx, email, password)
	switch {
	case err == nil:
		if err := s.profiles.Insert(ctx, models.User{ID: cred.ID, Email: email, Role: role}); err != nil {
			s.logger.Error("insert profile for new credential", zap.String("user_id", cred.ID.String()), zap.Error(err))
			return nil, apperr.Storage(err)
		}
		s.logger.Info("account provisioned", zap.String("user_id", cred.ID.String()), zap.String("role", string(role)))
		return &CreateResult{ID: cred.ID, Email: email, Outcome: OutcomeCreated}, nil
	case errors.Is(err, identity.ErrEmailRegistered):
		return s.linkExisting(ctx, email, role)
	default:
		s.logger.Error("create credential", zap.Error(err))
		return nil, apperr.Storage(err)
	}
}

func (s *Service) linkExisting(ctx context.Context, email string, role models.Role) (*CreateResult, error) {
	cred, err := s.credentials.GetByEmail(ctx, email)
	if errors.Is(err, identity.ErrNotFound) {
		s.logger.Error("email reported registered but no credential found", zap.String("email", email))
		return nil, apperr.InconsistentState("User exists in identity store but not found.")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}

	result := &CreateResult{ID: cred.ID, Email: cred.Email, Outcome: OutcomeAlreadyExisted}
	_, err = s.profiles.GetByID(ctx, cred.ID)
	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, profiles.ErrNotFound):
		if err := s.profiles.Insert(ctx, models.User{ID: cred.ID, Email: cred.Email, Role: role}); err != nil {
			return nil, apperr.Storage(err)
		}
		result.Linked = true
		s.logger.Warn("linked orphan credential to new profile", zap.String("user_id", cred.ID.String()), zap.String("role", string(role)))
		return result, nil
	default:
		return nil, apperr.Storage(err)
	}
}

// DeleteManager removes a manager's credential and then its profile.
//
// The requester must resolve to superadmin. The credential goes first; if
// that fails nothing else is touched. If the profile removal then fails the
// result is a PartialFailureError and a cleanup job is queued. A credential
// that is already absent counts as removed, so repeating the call finishes a
// partial delete.
func (s *Service) DeleteManager(ctx context.Context, targetID, requesterID uuid.UUID) error {
	if targetID == uuid.Nil || requesterID == uuid.Nil {
		return apperr.InvalidInput("User ID and requester ID required")
	}

	if _, err := s.authz.Authorize(ctx, requesterID, models.RoleSuperadmin); err != nil {
		var forbidden *apperr.ForbiddenError
		if errors.As(err, &forbidden) {
			return apperr.Forbidden("Only superadmin can delete managers")
		}
		return err
	}

	target, err := s.profiles.GetByID(ctx, targetID)
	switch {
	case err == nil:
		if target.Role == models.RoleSuperadmin {
			return apperr.Forbidden("Superadmin accounts cannot be removed")
		}
	case errors.Is(err, profiles.ErrNotFound):
	default:
		return apperr.Storage(err)
	}

	credentialRemoved := true
	if err := s.credentials.Delete(ctx, targetID); err != nil {
		if !errors.Is(err, identity.ErrNotFound) {
			s.logger.Error("delete credential", zap.String("user_id", targetID.String()), zap.Error(err))
			return apperr.Storage(err)
		}
		credentialRemoved = false
	}

	if err := s.profiles.Delete(ctx, targetID); err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			if !credentialRemoved {
				return apperr.NotFound("manager %s not found", targetID)
			}
			return nil
		}
		if !credentialRemoved {
			return apperr.Storage(err)
		}
		s.logger.Warn("credential removed but profile removal failed", zap.String("user_id", targetID.String()), zap.Error(err))
		s.scheduleCleanup(ctx, targetID)
		return apperr.PartialFailure("Deleted from identity store", "profile deletion", err)
	}

	s.logger.Info("manager deleted", zap.String("user_id", targetID.String()), zap.String("requester_id", requesterID.String()))
	return nil
}

func (s *Service) scheduleCleanup(ctx context.Context, userID uuid.UUID) {
	if s.cleanup == nil {
		return
	}
	if err := s.cleanup.EnqueueProfileCleanup(ctx, userID); err != nil {
		s.logger.Error("enqueue profile cleanup", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

// RemoveResidualProfile deletes the profile of a user whose credential is already gone.
// A missing profile is success.
func (s *Service) RemoveResidualProfile(ctx context.Context, userID uuid.UUID) error {
	_, err := s.credentials.GetByID(ctx, userID)
	if err == nil {
		return ErrCredentialPresent
	}
	if !errors.Is(err, identity.ErrNotFound) {
		return apperr.Storage(err)
	}
	if err := s.profiles.Delete(ctx, userID); err != nil && !errors.Is(err, profiles.ErrNotFound) {
		return apperr.Storage(err)
	}
	s.logger.Info("residual profile removed", zap.String("user_id", userID.String()))
	return nil
}
