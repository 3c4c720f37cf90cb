// Package users persists user accounts in a kv.Store.
//
// Accounts live under "users/<id>" as JSON. The email index
// "users_by_email/<normalized email>" maps an address to the owning id and is
// claimed with SetIfAbsent, which keeps emails unique across concurrent
// signups.
package users

import (
	"context"

	"github.com/dmitrijs2005/medibook/internal/models"
)

type Repository interface {
	// Create stores a new user. It fails with common.ErrEmailTaken when the
	// email is already registered.
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail matches case-insensitively and ignores surrounding spaces.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	// Update overwrites a stored user. The email cannot change.
	Update(ctx context.Context, u *models.User) error
}
