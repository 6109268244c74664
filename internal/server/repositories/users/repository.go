// Package users stores accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophfeed/internal/server/models"
)

// Repository persists users. Lookups of absent users return
// common.ErrorNotFound; Create with a taken email returns
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, name, bio string) (*models.User, error)
}
