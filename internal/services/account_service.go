package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rfoster/userboard/internal/models"
	"github.com/rfoster/userboard/internal/outbox"
	pkgauth "github.com/rfoster/userboard/pkg/auth"
)

// UserRepository defines the data access needed by the account lifecycle
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)
	Activate(ctx context.Context, id int64) error
	UpdateLastLogin(ctx context.Context, id int64, t time.Time) error
}

// TokenIssuer signs session tokens for successful logins
type TokenIssuer interface {
	Generate(userID int64, email string) (string, error)
}

// MailOutbox queues verification emails for asynchronous delivery
type MailOutbox interface {
	Enqueue(msg outbox.Message) error
}

// AccountService orchestrates registration, email verification and login
type AccountService struct {
	repo   UserRepository
	tokens TokenIssuer
	mail   MailOutbox
	logger *slog.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(repo UserRepository, tokens TokenIssuer, mail MailOutbox, logger *slog.Logger) *AccountService {
	return &AccountService{
		repo:   repo,
		tokens: tokens,
		mail:   mail,
		logger: logger,
	}
}

// Register creates an unverified account and queues the verification
// email. The insert commits whether or not the email can be delivered;
// a queue failure is logged, never propagated.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	passwordHash, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, err := pkgauth.GenerateVerificationToken()
	if err != nil {
		s.logger.Error("failed to generate verification token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user := &models.User{
		Name:              name,
		Email:             email,
		PasswordHash:      passwordHash,
		Status:            models.StatusUnverified,
		VerificationToken: &token,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("registration rejected, email already exists")
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := s.mail.Enqueue(outbox.Message{Email: created.Email, Token: token}); err != nil {
		s.logger.Error("failed to queue verification email",
			slog.Int64("user_id", created.ID),
			slog.Any("error", err))
	}

	s.logger.Info("user registered", slog.Int64("user_id", created.ID))
	return created, nil
}

// VerifyEmail consumes a verification token and activates the account.
// Activation clears the token, so a repeat call with the same token
// fails with ErrNotFound.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return models.ErrNotFound
	}

	user, err := s.repo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("verification token not found")
			return models.ErrNotFound
		}
		s.logger.Error("failed to look up verification token", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.Activate(ctx, user.ID); err != nil {
		s.logger.Error("failed to activate user",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("email verified", slog.Int64("user_id", user.ID))
	return nil
}

// Login verifies credentials and issues a session token. An unknown
// email and a wrong password produce the same error so callers cannot
// enumerate accounts; status gates fire before the password check, so
// a blocked or unverified account is reported regardless of password
// correctness.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user by email", slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	switch user.Status {
	case models.StatusUnverified:
		return "", models.ErrEmailNotVerified
	case models.StatusBlocked:
		return "", models.ErrAccountBlocked
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", models.ErrInvalidCredentials
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.logger.Error("failed to update last login time",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to issue session token",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.Int64("user_id", user.ID))
	return token, nil
}
