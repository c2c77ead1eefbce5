package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/rfoster/userboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_ListUsers_Success(t *testing.T) {
	summaries := []*models.UserSummary{
		{ID: 1, Name: "Alice", Email: "alice@x.com", Status: models.StatusActive},
		{ID: 2, Name: "Bob", Email: "bob@x.com", Status: models.StatusUnverified},
	}

	repo := &MockUserRepository{
		ListFunc: func(ctx context.Context) ([]*models.UserSummary, error) {
			return summaries, nil
		},
	}

	svc := NewAdminService(repo, slog.Default())

	result, err := svc.ListUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, int64(1), result[0].ID)
	assert.Equal(t, int64(2), result[1].ID)
}

func TestAdminService_ListUsers_DatabaseError(t *testing.T) {
	repo := &MockUserRepository{
		ListFunc: func(ctx context.Context) ([]*models.UserSummary, error) {
			return nil, models.ErrInternalServer
		},
	}

	svc := NewAdminService(repo, slog.Default())

	result, err := svc.ListUsers(context.Background())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, models.ErrInternalServer)
}

func TestAdminService_UpdateStatus_Success(t *testing.T) {
	var gotIDs []int64
	var gotStatus string
	repo := &MockUserRepository{
		UpdateStatusFunc: func(ctx context.Context, ids []int64, status string) (int64, error) {
			gotIDs = ids
			gotStatus = status
			// id 99 does not exist; only two rows change
			return 2, nil
		},
	}

	svc := NewAdminService(repo, slog.Default())

	count, err := svc.UpdateStatus(context.Background(), []int64{1, 2, 99}, models.StatusBlocked)

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, []int64{1, 2, 99}, gotIDs)
	assert.Equal(t, models.StatusBlocked, gotStatus)
}

func TestAdminService_UpdateStatus_EmptyIDs(t *testing.T) {
	svc := NewAdminService(&MockUserRepository{}, slog.Default())

	_, err := svc.UpdateStatus(context.Background(), nil, models.StatusBlocked)

	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestAdminService_UpdateStatus_UnknownStatus(t *testing.T) {
	svc := NewAdminService(&MockUserRepository{}, slog.Default())

	_, err := svc.UpdateStatus(context.Background(), []int64{1}, "suspended")

	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestAdminService_DeleteUsers_Success(t *testing.T) {
	repo := &MockUserRepository{
		DeleteByIDsFunc: func(ctx context.Context, ids []int64) (int64, error) {
			return int64(len(ids)) - 1, nil
		},
	}

	svc := NewAdminService(repo, slog.Default())

	count, err := svc.DeleteUsers(context.Background(), []int64{1, 2, 99})

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestAdminService_DeleteUsers_EmptyIDs(t *testing.T) {
	svc := NewAdminService(&MockUserRepository{}, slog.Default())

	_, err := svc.DeleteUsers(context.Background(), []int64{})

	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestAdminService_DeleteUnverified(t *testing.T) {
	repo := &MockUserRepository{
		DeleteUnverifiedFunc: func(ctx context.Context) (int64, error) {
			return 4, nil
		},
	}

	svc := NewAdminService(repo, slog.Default())

	count, err := svc.DeleteUnverified(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}
