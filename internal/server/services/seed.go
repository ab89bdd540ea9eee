package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/safevault/internal/common"
	"gopkg.in/yaml.v3"
)

// SeedUser is one entry of a seed file.
type SeedUser struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type seedFile struct {
	Users []SeedUser `yaml:"users"`
}

// SeedFromFile registers the users listed in a YAML file:
//
//	users:
//	  - username: admin
//	    email: admin@example.com
//	    password: "Adm1n!pass"
//	    role: Admin
//
// Accounts whose username or email already exists are skipped, so the file
// can be applied on every start. It returns the number of accounts created.
func (s *UserService) SeedFromFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	created := 0
	for i, u := range f.Users {
		if u.Role == "" {
			u.Role = common.DefaultRole
		}
		_, err := s.Register(ctx, RegisterRequest{
			Username: u.Username,
			Email:    u.Email,
			Password: u.Password,
			Role:     u.Role,
		})
		switch {
		case err == nil:
			created++
		case errors.Is(err, common.ErrorUsernameTaken), errors.Is(err, common.ErrorEmailTaken):
			s.logger.Debug(ctx, "seed user exists", "username", u.Username)
		default:
			return created, fmt.Errorf("seed user #%d (%s): %w", i+1, u.Username, err)
		}
	}

	s.logger.Info(ctx, "seed applied", "created", created, "total", len(f.Users))
	return created, nil
}
