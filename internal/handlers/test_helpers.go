package handlers

import (
	"context"

	"github.com/rfoster/userboard/internal/models"
)

// MockAccountService implements AccountServiceInterface for testing
type MockAccountService struct {
	RegisterFunc    func(ctx context.Context, name, email, password string) (*models.User, error)
	VerifyEmailFunc func(ctx context.Context, token string) error
	LoginFunc       func(ctx context.Context, email, password string) (string, error)
}

func (m *MockAccountService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, name, email, password)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAccountService) VerifyEmail(ctx context.Context, token string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, token)
	}
	return models.ErrNotFound
}

func (m *MockAccountService) Login(ctx context.Context, email, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "", models.ErrInvalidCredentials
}

// MockAdminService implements AdminServiceInterface for testing
type MockAdminService struct {
	ListUsersFunc        func(ctx context.Context) ([]*models.UserSummary, error)
	UpdateStatusFunc     func(ctx context.Context, ids []int64, status string) (int64, error)
	DeleteUsersFunc      func(ctx context.Context, ids []int64) (int64, error)
	DeleteUnverifiedFunc func(ctx context.Context) (int64, error)
}

func (m *MockAdminService) ListUsers(ctx context.Context) ([]*models.UserSummary, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return []*models.UserSummary{}, nil
}

func (m *MockAdminService) UpdateStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, ids, status)
	}
	return 0, nil
}

func (m *MockAdminService) DeleteUsers(ctx context.Context, ids []int64) (int64, error) {
	if m.DeleteUsersFunc != nil {
		return m.DeleteUsersFunc(ctx, ids)
	}
	return 0, nil
}

func (m *MockAdminService) DeleteUnverified(ctx context.Context) (int64, error) {
	if m.DeleteUnverifiedFunc != nil {
		return m.DeleteUnverifiedFunc(ctx)
	}
	return 0, nil
}
