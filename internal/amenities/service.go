// Package amenities maintains the society's ordered, renameable amenity list.
package amenities

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/society-admin/backend/internal/apperr"
	"github.com/society-admin/backend/internal/models"
)

// Store is the persistence the service writes through.
type Store interface {
	List(ctx context.Context) ([]models.Amenity, error)
	SetOrderIndex(ctx context.Context, id int64, index int) error
	Rename(ctx context.Context, id int64, name string) error
}

// Service is the sole writer of amenities.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates an amenities service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// List returns all amenities sorted ascending by order_index.
func (s *Service) List(ctx context.Context) ([]models.Amenity, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return list, nil
}

// Reorder sets order_index = position for every id in orderedIDs.
//
// orderedIDs must be the full current id set; ids left out keep their old
// index. The per-id updates are issued concurrently and all of them are
// attempted. There is no rollback: on failure some updates may already be
// applied, so callers should re-fetch the list.
func (s *Service) Reorder(ctx context.Context, orderedIDs []int64) error {
	if orderedIDs == nil {
		return apperr.InvalidInput("Invalid input, orderedIds must be an array")
	}
	seen := make(map[int64]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, dup := seen[id]; dup {
			return apperr.InvalidInput("Invalid input, amenity %d appears more than once", id)
		}
		seen[id] = struct{}{}
	}

	var g errgroup.Group
	for idx, id := range orderedIDs {
		idx, id := idx, id
		g.Go(func() error {
			if err := s.store.SetOrderIndex(ctx, id, idx); err != nil {
				s.logger.Error("amenity reorder update failed", zap.Int64("amenity_id", id), zap.Int("order_index", idx), zap.Error(err))
				if errors.Is(err, ErrNotFound) {
					return apperr.NotFound("amenity %d not found", id)
				}
				return apperr.Storage(err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("amenities reordered", zap.Int("count", len(orderedIDs)))
	return nil
}

// Rename changes only the name of amenity id.
func (s *Service) Rename(ctx context.Context, id int64, name string) error {
	if id <= 0 {
		return apperr.InvalidInput("Invalid input, id is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.InvalidInput("Invalid input, name must be a non-empty string")
	}
	if err := s.store.Rename(ctx, id, name); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("amenity %d not found", id)
		}
		s.logger.Error("amenity rename failed", zap.Int64("amenity_id", id), zap.Error(err))
		return apperr.Storage(err)
	}
	return nil
}
