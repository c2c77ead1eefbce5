package services

import (
	"context"
	"log/slog"

	"github.com/rfoster/userboard/internal/models"
)

// BulkUserRepository defines the data access needed by bulk admin actions
type BulkUserRepository interface {
	List(ctx context.Context) ([]*models.UserSummary, error)
	UpdateStatus(ctx context.Context, ids []int64, status string) (int64, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
	DeleteUnverified(ctx context.Context) (int64, error)
}

// AdminService applies administrative actions over sets of accounts.
// Every caller has already passed authentication; there is no further
// role check on the admin surface.
type AdminService struct {
	repo   BulkUserRepository
	logger *slog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(repo BulkUserRepository, logger *slog.Logger) *AdminService {
	return &AdminService{
		repo:   repo,
		logger: logger,
	}
}

// ListUsers returns every user summary, ordered by id ascending.
func (s *AdminService) ListUsers(ctx context.Context) ([]*models.UserSummary, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return users, nil
}

// UpdateStatus sets the status on every existing id in the set and
// returns how many rows changed. Unknown ids are ignored.
func (s *AdminService) UpdateStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	if len(ids) == 0 || !models.ValidStatus(status) {
		return 0, models.ErrBadRequest
	}

	count, err := s.repo.UpdateStatus(ctx, ids, status)
	if err != nil {
		s.logger.Error("failed to update user status",
			slog.String("status", status),
			slog.Any("error", err))
		return 0, models.ErrInternalServer
	}

	s.logger.Info("user status updated",
		slog.String("status", status),
		slog.Int64("count", count))
	return count, nil
}

// DeleteUsers removes every existing id in the set and returns how
// many rows were deleted. Unknown ids are ignored.
func (s *AdminService) DeleteUsers(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, models.ErrBadRequest
	}

	count, err := s.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("failed to delete users", slog.Any("error", err))
		return 0, models.ErrInternalServer
	}

	s.logger.Info("users deleted", slog.Int64("count", count))
	return count, nil
}

// DeleteUnverified removes every account still awaiting verification.
func (s *AdminService) DeleteUnverified(ctx context.Context) (int64, error) {
	count, err := s.repo.DeleteUnverified(ctx)
	if err != nil {
		s.logger.Error("failed to delete unverified users", slog.Any("error", err))
		return 0, models.ErrInternalServer
	}

	s.logger.Info("unverified users deleted", slog.Int64("count", count))
	return count, nil
}
