// Package users declares the server-side repository contract for user
// accounts.
package users

import (
	"context"

	"github.com/wayfarer-app/wayfarer/internal/server/models"
)

// Repository defines operations for creating and looking up users.
type Repository interface {
	// Create stores a new user and returns it with ID and CreatedAt
	// populated. A duplicate email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByEmail looks a user up by email. Implementations return
	// common.ErrorNotFound when the user is absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks a user up by primary key.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
