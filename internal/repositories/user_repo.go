package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rfoster/userboard/internal/database"
	"github.com/rfoster/userboard/internal/models"
)

const userColumns = `id, name, email, password_hash, status, verification_token, registration_time, last_login_time`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

// rowScanner interface for scanning user rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Status, &user.VerificationToken,
		&user.RegistrationTime, &user.LastLoginTime,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Status == "" {
		user.Status = models.StatusUnverified
	}

	query := `
		INSERT INTO users (name, email, password_hash, status, verification_token)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	created, err := scanUserRow(r.pool.QueryRow(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Status, user.VerificationToken,
	))
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail looks a user up case-insensitively; storage keeps the
// email exactly as registered.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE verification_token = $1`

	return scanUserRow(r.pool.QueryRow(ctx, query, token))
}

// Activate marks the account active and clears the verification token
// in one statement, so a second lookup with the same token misses.
func (r *UserRepository) Activate(ctx context.Context, id int64) error {
	query := `UPDATE users SET status = $1, verification_token = NULL WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, models.StatusActive, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64, t time.Time) error {
	query := `UPDATE users SET last_login_time = $1 WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, t, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// List returns summaries of every user, ordered by id ascending.
func (r *UserRepository) List(ctx context.Context) ([]*models.UserSummary, error) {
	query := `
		SELECT id, name, email, status, registration_time, last_login_time
		FROM users ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserSummaries(rows)
}

func scanUserSummaries(rows pgx.Rows) ([]*models.UserSummary, error) {
	defer rows.Close()

	users := make([]*models.UserSummary, 0)

	for rows.Next() {
		var u models.UserSummary
		err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Status, &u.RegistrationTime, &u.LastLoginTime)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

// UpdateStatus applies the status to every matching row in a single
// statement. Ids with no row are skipped, not reported.
func (r *UserRepository) UpdateStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	query := `UPDATE users SET status = $1 WHERE id = ANY($2)`

	result, err := r.pool.Exec(ctx, query, status, ids)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return result.RowsAffected(), nil
}

// DeleteByIDs physically removes the matching rows. Ids with no row
// are skipped, not reported.
func (r *UserRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	query := `DELETE FROM users WHERE id = ANY($1)`

	result, err := r.pool.Exec(ctx, query, ids)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return result.RowsAffected(), nil
}

func (r *UserRepository) DeleteUnverified(ctx context.Context) (int64, error) {
	query := `DELETE FROM users WHERE status = $1`

	result, err := r.pool.Exec(ctx, query, models.StatusUnverified)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return result.RowsAffected(), nil
}
