package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rfoster/userboard/internal/models"
	"github.com/rfoster/userboard/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*TestDB, *repositories.UserRepository) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = testDB.Teardown(context.Background())
	})

	return testDB, repositories.NewUserRepository(testDB.DB)
}

func strPtr(s string) *string { return &s }

func TestUserRepository_EmailUniqueCaseInsensitive(t *testing.T) {
	testDB, repo := setupRepo(t)
	ctx := context.Background()

	_, err := testDB.SeedUser(ctx, "Alice", "alice@x.com", "pw123456", models.StatusActive, nil)
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{
		Name:         "Shadow",
		Email:        "ALICE@X.COM",
		PasswordHash: "irrelevant",
		Status:       models.StatusUnverified,
	})
	assert.True(t, errors.Is(err, models.ErrConflict))

	// Case-insensitive lookup finds the original row
	user, err := repo.GetByEmail(ctx, "Alice@X.Com")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", user.Email)
}

func TestUserRepository_ActivateClearsToken(t *testing.T) {
	testDB, repo := setupRepo(t)
	ctx := context.Background()

	id, err := testDB.SeedUser(ctx, "Alice", "alice@x.com", "pw123456", models.StatusUnverified, strPtr("tok-123"))
	require.NoError(t, err)

	found, err := repo.GetByVerificationToken(ctx, "tok-123")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)

	require.NoError(t, repo.Activate(ctx, id))

	user, err := testDB.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, user.Status)
	assert.Nil(t, user.VerificationToken)

	// Verification is single-use: the consumed token no longer matches
	_, err = repo.GetByVerificationToken(ctx, "tok-123")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestUserRepository_BulkOpsIgnoreUnknownIDs(t *testing.T) {
	testDB, repo := setupRepo(t)
	ctx := context.Background()

	id1, err := testDB.SeedUser(ctx, "Alice", "alice@x.com", "pw123456", models.StatusActive, nil)
	require.NoError(t, err)
	id2, err := testDB.SeedUser(ctx, "Bob", "bob@x.com", "pw123456", models.StatusActive, nil)
	require.NoError(t, err)

	count, err := repo.UpdateStatus(ctx, []int64{id1, 99999}, models.StatusBlocked)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	user, err := testDB.GetUser(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBlocked, user.Status)

	count, err = repo.DeleteByIDs(ctx, []int64{id2, 99999})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = repo.GetByID(ctx, id2)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestUserRepository_DeleteUnverified(t *testing.T) {
	testDB, repo := setupRepo(t)
	ctx := context.Background()

	_, err := testDB.SeedUser(ctx, "Alice", "alice@x.com", "pw123456", models.StatusActive, nil)
	require.NoError(t, err)
	_, err = testDB.SeedUser(ctx, "Bob", "bob@x.com", "pw123456", models.StatusUnverified, strPtr("t1"))
	require.NoError(t, err)
	_, err = testDB.SeedUser(ctx, "Carol", "carol@x.com", "pw123456", models.StatusUnverified, strPtr("t2"))
	require.NoError(t, err)

	count, err := repo.DeleteUnverified(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice@x.com", users[0].Email)
}

func TestUserRepository_ListOrderedByID(t *testing.T) {
	testDB, repo := setupRepo(t)
	ctx := context.Background()

	id1, err := testDB.SeedUser(ctx, "Alice", "alice@x.com", "pw123456", models.StatusActive, nil)
	require.NoError(t, err)
	id2, err := testDB.SeedUser(ctx, "Bob", "bob@x.com", "pw123456", models.StatusActive, nil)
	require.NoError(t, err)

	// A login on the first user must not affect listing order
	require.NoError(t, repo.UpdateLastLogin(ctx, id1, time.Now()))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, id1, users[0].ID)
	assert.Equal(t, id2, users[1].ID)
	assert.NotNil(t, users[0].LastLoginTime)
	assert.Nil(t, users[1].LastLoginTime)
}
