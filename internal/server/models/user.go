package models

import (
	"time"

	"github.com/dmitrijs2005/safevault/internal/server/lockout"
)

// User is a stored account. The lockout counters are owned by the store;
// services borrow them for one attempt and write them back explicitly.
type User struct {
	ID                  int64
	UserName            string
	Email               string
	PasswordHash        string
	Role                string
	FailedLoginAttempts int
	LockoutEnd          *time.Time
	CreatedAt           time.Time
}

// Counters returns the lockout view of the user.
func (u *User) Counters() lockout.Counters {
	return lockout.Counters{FailedAttempts: u.FailedLoginAttempts, LockoutEnd: u.LockoutEnd}
}
