package ports

import (
	"context"

	"labstock/models"

	"github.com/google/uuid"
)

// UserRepository persists inventory users
type UserRepository interface {
	GetOrCreateDefaultUser(ctx context.Context) (*models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}
