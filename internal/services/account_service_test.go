package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/rfoster/userboard/internal/models"
	"github.com/rfoster/userboard/internal/outbox"
	pkgauth "github.com/rfoster/userboard/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountService(repo *MockUserRepository, tokens *MockTokenIssuer, mail *MockOutbox) *AccountService {
	return NewAccountService(repo, tokens, mail, slog.Default())
}

func TestAccountService_Register_Success(t *testing.T) {
	var created *models.User
	repo := &MockUserRepository{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			user.ID = 1
			user.RegistrationTime = time.Now()
			created = user
			return user, nil
		},
	}
	mail := &MockOutbox{}

	svc := newAccountService(repo, &MockTokenIssuer{}, mail)

	user, err := svc.Register(context.Background(), "Alice", "alice@x.com", "pw123456")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, models.StatusUnverified, created.Status)
	require.NotNil(t, created.VerificationToken)
	assert.Len(t, *created.VerificationToken, 64)

	// The plaintext password never reaches the repository
	assert.NotEqual(t, "pw123456", created.PasswordHash)
	assert.NoError(t, pkgauth.ComparePassword(created.PasswordHash, "pw123456"))

	// Verification email queued with the row's token
	require.Len(t, mail.Messages, 1)
	assert.Equal(t, "alice@x.com", mail.Messages[0].Email)
	assert.Equal(t, *created.VerificationToken, mail.Messages[0].Token)
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	repo := &MockUserRepository{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			return nil, models.ErrConflict
		},
	}

	svc := newAccountService(repo, &MockTokenIssuer{}, &MockOutbox{})

	user, err := svc.Register(context.Background(), "Alice", "alice@x.com", "pw123456")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestAccountService_Register_OutboxFullDoesNotFail(t *testing.T) {
	repo := &MockUserRepository{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			user.ID = 1
			return user, nil
		},
	}
	full := &MockOutbox{
		EnqueueFunc: func(msg outbox.Message) error {
			return errors.New("outbox queue full")
		},
	}

	svc := newAccountService(repo, &MockTokenIssuer{}, full)

	user, err := svc.Register(context.Background(), "Alice", "alice@x.com", "pw123456")
	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestAccountService_VerifyEmail_Success(t *testing.T) {
	token := "sometoken"
	user := NewTestUser(3, "alice@x.com", "Alice", models.StatusUnverified)
	user.VerificationToken = &token

	var activated int64
	repo := &MockUserRepository{
		GetByVerificationTokenFunc: func(ctx context.Context, tok string) (*models.User, error) {
			if tok == token {
				return user, nil
			}
			return nil, models.ErrNotFound
		},
		ActivateFunc: func(ctx context.Context, id int64) error {
			activated = id
			return nil
		},
	}

	svc := newAccountService(repo, &MockTokenIssuer{}, &MockOutbox{})

	err := svc.VerifyEmail(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, int64(3), activated)
}

func TestAccountService_VerifyEmail_UnknownToken(t *testing.T) {
	repo := &MockUserRepository{}
	svc := newAccountService(repo, &MockTokenIssuer{}, &MockOutbox{})

	err := svc.VerifyEmail(context.Background(), "wrong-token")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAccountService_VerifyEmail_EmptyToken(t *testing.T) {
	svc := newAccountService(&MockUserRepository{}, &MockTokenIssuer{}, &MockOutbox{})

	err := svc.VerifyEmail(context.Background(), "")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func loginRepo(t *testing.T, status, password string) (*MockUserRepository, *models.User) {
	t.Helper()

	hash, err := pkgauth.HashPassword(password)
	require.NoError(t, err)

	user := NewTestUser(5, "alice@x.com", "Alice", status)
	user.PasswordHash = hash

	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	return repo, user
}

func TestAccountService_Login_Success(t *testing.T) {
	repo, user := loginRepo(t, models.StatusActive, "pw123456")

	var lastLoginID int64
	repo.UpdateLastLoginFunc = func(ctx context.Context, id int64, ts time.Time) error {
		lastLoginID = id
		return nil
	}

	tokens := &MockTokenIssuer{
		GenerateFunc: func(userID int64, email string) (string, error) {
			assert.Equal(t, user.ID, userID)
			assert.Equal(t, user.Email, email)
			return "signed-token", nil
		},
	}

	svc := newAccountService(repo, tokens, &MockOutbox{})

	token, err := svc.Login(context.Background(), "alice@x.com", "pw123456")

	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
	assert.Equal(t, user.ID, lastLoginID)
}

func TestAccountService_Login_UnknownEmail(t *testing.T) {
	svc := newAccountService(&MockUserRepository{}, &MockTokenIssuer{}, &MockOutbox{})

	token, err := svc.Login(context.Background(), "nobody@x.com", "pw123456")

	assert.Empty(t, token)
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	repo, _ := loginRepo(t, models.StatusActive, "pw123456")
	svc := newAccountService(repo, &MockTokenIssuer{}, &MockOutbox{})

	token, err := svc.Login(context.Background(), "alice@x.com", "wrongpw")

	assert.Empty(t, token)
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

// An unverified account is reported before the password is checked,
// even when the password would be correct.
func TestAccountService_Login_Unverified(t *testing.T) {
	repo, _ := loginRepo(t, models.StatusUnverified, "pw123456")
	svc := newAccountService(repo, &MockTokenIssuer{}, &MockOutbox{})

	_, err := svc.Login(context.Background(), "alice@x.com", "pw123456")
	assert.ErrorIs(t, err, models.ErrEmailNotVerified)

	_, err = svc.Login(context.Background(), "alice@x.com", "wrongpw")
	assert.ErrorIs(t, err, models.ErrEmailNotVerified)
}

func TestAccountService_Login_Blocked(t *testing.T) {
	repo, _ := loginRepo(t, models.StatusBlocked, "pw123456")
	svc := newAccountService(repo, &MockTokenIssuer{}, &MockOutbox{})

	_, err := svc.Login(context.Background(), "alice@x.com", "pw123456")
	assert.ErrorIs(t, err, models.ErrAccountBlocked)

	_, err = svc.Login(context.Background(), "alice@x.com", "wrongpw")
	assert.ErrorIs(t, err, models.ErrAccountBlocked)
}
