// Package users is the credential store: the only owner of user records and
// the only enforcer of username and email uniqueness.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/safevault/internal/server/models"
)

// Repository persists user records.
//
// Create returns common.ErrorMissingField for an incomplete record and
// common.ErrorUsernameTaken or common.ErrorEmailTaken for duplicates. Lookups
// return common.ErrorNotFound for unknown usernames.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, username string) (*models.User, error)
	// GetUserByLoginForUpdate is GetUserByLogin that also locks the row
	// until the surrounding transaction ends.
	GetUserByLoginForUpdate(ctx context.Context, username string) (*models.User, error)
	UpdateLockout(ctx context.Context, userID int64, failedAttempts int, lockoutEnd *time.Time) error
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
}
