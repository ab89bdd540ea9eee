package users

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/safevault/internal/common"
	"github.com/dmitrijs2005/safevault/internal/server/models"
)

// Column widths from the create_users migration, in characters.
const (
	MaxUsernameLength = 100
	MaxEmailLength    = 100
	MaxRoleLength     = 50
)

// checkFields rejects a record the users table would not accept, before any
// store call.
func checkFields(u *models.User) error {
	for _, v := range []string{u.UserName, u.Email, u.PasswordHash, u.Role} {
		if strings.TrimSpace(v) == "" {
			return common.ErrorMissingField
		}
	}

	limits := []struct {
		name  string
		value string
		max   int
	}{
		{"username", u.UserName, MaxUsernameLength},
		{"email", u.Email, MaxEmailLength},
		{"role", u.Role, MaxRoleLength},
	}
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return fmt.Errorf("%w: %s must not exceed %d characters", common.ErrorFieldTooLong, l.name, l.max)
		}
	}
	return nil
}
