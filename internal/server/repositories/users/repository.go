// Package users is the identity store: credential records keyed by a unique
// email, with Postgres, SQLite and MongoDB implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/sociopedia/internal/server/models"
)

// Repository persists credential records.
//
// Create fails with common.ErrDuplicateIdentifier when the email (or id) is
// taken; the lookups fail with common.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
