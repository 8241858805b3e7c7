// Package refreshtokens declares the server-side token store: persisted
// refresh-token records keyed by their opaque token string.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores rt and fills in its ID.
	Create(ctx context.Context, rt *models.RefreshToken) (*models.RefreshToken, error)

	// Find looks up a refresh token by its token string.
	// Implementations return common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token by its token string and reports how many
	// records were removed. Deleting a non-existent token is not an error.
	Delete(ctx context.Context, token string) (int64, error)

	// DeleteByUserID removes every refresh token owned by userID.
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}

// Rotator is implemented by stores that can replace one token with another
// atomically. Rotate fails with common.ErrorNotFound when oldToken is gone,
// in which case next is not stored.
type Rotator interface {
	Rotate(ctx context.Context, oldToken string, next *models.RefreshToken) (*models.RefreshToken, error)
}
