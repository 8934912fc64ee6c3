package postgres

import (
	"context"
	"database/sql"
	"errors"

	"labstock/models"
	"labstock/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var defaultUserID = uuid.MustParse("3f6c0b1e-5d2a-4b8f-9c47-1a2e6d9b0c3a")

// UserRepositoryImpl implements UserRepository for PostgreSQL
type UserRepositoryImpl struct {
	db *sqlx.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sqlx.DB) ports.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// GetOrCreateDefaultUser gets the default user or creates it if it doesn't exist
func (r *UserRepositoryImpl) GetOrCreateDefaultUser(ctx context.Context) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `
		SELECT id, email, username, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`, defaultUserID)

	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	user = models.User{
		ID:       defaultUserID,
		Email:    "default@labstock.local",
		Username: "default",
		IsActive: true,
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO users (id, email, username, is_active, created_at, updated_at)
		VALUES (:id, :email, :username, :is_active, NOW(), NOW())
	`, user)

	if err != nil {
		// Another process may have created it concurrently
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return r.GetUserByID(ctx, defaultUserID)
		}
		return nil, err
	}

	return &user, nil
}

// GetUserByID retrieves a user by their ID
func (r *UserRepositoryImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `
		SELECT id, email, username, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
