package services

import (
	"context"
	"time"

	"github.com/rfoster/userboard/internal/models"
	"github.com/rfoster/userboard/internal/outbox"
)

// MockUserRepository implements UserRepository and BulkUserRepository for testing
type MockUserRepository struct {
	CreateFunc                 func(ctx context.Context, user *models.User) (*models.User, error)
	GetByIDFunc                func(ctx context.Context, id int64) (*models.User, error)
	GetByEmailFunc             func(ctx context.Context, email string) (*models.User, error)
	GetByVerificationTokenFunc func(ctx context.Context, token string) (*models.User, error)
	ActivateFunc               func(ctx context.Context, id int64) error
	UpdateLastLoginFunc        func(ctx context.Context, id int64, t time.Time) error
	ListFunc                   func(ctx context.Context) ([]*models.UserSummary, error)
	UpdateStatusFunc           func(ctx context.Context, ids []int64, status string) (int64, error)
	DeleteByIDsFunc            func(ctx context.Context, ids []int64) (int64, error)
	DeleteUnverifiedFunc       func(ctx context.Context) (int64, error)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	if m.GetByVerificationTokenFunc != nil {
		return m.GetByVerificationTokenFunc(ctx, token)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Activate(ctx context.Context, id int64) error {
	if m.ActivateFunc != nil {
		return m.ActivateFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id int64, t time.Time) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, id, t)
	}
	return nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.UserSummary, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.UserSummary{}, nil
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, ids, status)
	}
	return 0, nil
}

func (m *MockUserRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if m.DeleteByIDsFunc != nil {
		return m.DeleteByIDsFunc(ctx, ids)
	}
	return 0, nil
}

func (m *MockUserRepository) DeleteUnverified(ctx context.Context) (int64, error) {
	if m.DeleteUnverifiedFunc != nil {
		return m.DeleteUnverifiedFunc(ctx)
	}
	return 0, nil
}

// MockTokenIssuer implements TokenIssuer for testing
type MockTokenIssuer struct {
	GenerateFunc func(userID int64, email string) (string, error)
}

func (m *MockTokenIssuer) Generate(userID int64, email string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(userID, email)
	}
	return "test-token", nil
}

// MockOutbox implements MailOutbox for testing
type MockOutbox struct {
	EnqueueFunc func(msg outbox.Message) error
	Messages    []outbox.Message
}

func (m *MockOutbox) Enqueue(msg outbox.Message) error {
	m.Messages = append(m.Messages, msg)
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(msg)
	}
	return nil
}

// NewTestUser builds a user row for tests
func NewTestUser(id int64, email, name, status string) *models.User {
	return &models.User{
		ID:               id,
		Name:             name,
		Email:            email,
		PasswordHash:     "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		Status:           status,
		RegistrationTime: time.Now(),
	}
}
