// Package users declares the credential store and its implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository persists registered users keyed by email.
type Repository interface {
	// Create inserts user and fills in its ID. A duplicate email is reported
	// as common.ErrEmailTaken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByEmail returns common.ErrorNotFound when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
