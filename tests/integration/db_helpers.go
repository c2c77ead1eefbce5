package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rfoster/userboard/internal/database"
	"github.com/rfoster/userboard/internal/models"
	"github.com/rfoster/userboard/migrations"
	pkgauth "github.com/rfoster/userboard/pkg/auth"
)

// TestDB manages the PostgreSQL testcontainer and database handles
type TestDB struct {
	Container  testcontainers.Container
	ConnString string
	Pool       *pgxpool.Pool
	DB         *database.DB
}

// SetupTestDatabase creates a PostgreSQL testcontainer, runs migrations, returns TestDB
func SetupTestDatabase(ctx context.Context) (*TestDB, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("userboard"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dbWrapper := &database.DB{Pool: pool}

	if err := database.Migrate(ctx, dbWrapper, migrations.FS); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestDB{
		Container:  container,
		ConnString: connStr,
		Pool:       pool,
		DB:         dbWrapper,
	}, nil
}

// Teardown stops the container and closes the connection pool
func (db *TestDB) Teardown(ctx context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.Container != nil {
		return db.Container.Terminate(ctx)
	}
	return nil
}

// TruncateUsers clears the users table between tests
func (db *TestDB) TruncateUsers(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, "TRUNCATE users RESTART IDENTITY")
	return err
}

// SeedUser inserts a user row directly and returns its id
func (db *TestDB) SeedUser(ctx context.Context, name, email, password, status string, verificationToken *string) (int64, error) {
	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return 0, err
	}

	var id int64
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, status, verification_token)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, name, email, hash, status, verificationToken).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetUser reads a user row back for assertions
func (db *TestDB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, status, verification_token, registration_time, last_login_time
		FROM users WHERE id = $1
	`, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Status, &user.VerificationToken,
		&user.RegistrationTime, &user.LastLoginTime,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
