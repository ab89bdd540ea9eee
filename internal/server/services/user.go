// Package services contains server-side business logic. UserService owns the
// login decision: lockout gate, password check, counter bookkeeping and token
// issuance. It also registers and lists accounts.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/safevault/internal/common"
	"github.com/dmitrijs2005/safevault/internal/dbx"
	"github.com/dmitrijs2005/safevault/internal/logging"
	"github.com/dmitrijs2005/safevault/internal/server/audit"
	"github.com/dmitrijs2005/safevault/internal/server/auth"
	"github.com/dmitrijs2005/safevault/internal/server/lockout"
	"github.com/dmitrijs2005/safevault/internal/server/models"
	"github.com/dmitrijs2005/safevault/internal/server/passwords"
	"github.com/dmitrijs2005/safevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/safevault/internal/server/sanitize"
)

// LockoutError rejects an attempt against a locked account. It matches
// common.ErrorUnauthorized under errors.Is.
type LockoutError struct {
	Remaining time.Duration
}

func (e *LockoutError) Error() string { return lockout.RetryHint(e.Remaining) }

func (e *LockoutError) Unwrap() error { return common.ErrorUnauthorized }

// RegisterRequest is the raw registration input. Username and Email are
// sanitized by Register; Password is only ever hashed.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
	Role     string
}

type UserService struct {
	repomanager repomanager.RepositoryManager
	hasher      *passwords.Hasher
	issuer      *auth.Issuer
	policy      lockout.Policy
	audit       audit.Recorder
	logger      logging.Logger
	now         func() time.Time
}

func NewUserService(
	m repomanager.RepositoryManager,
	hasher *passwords.Hasher,
	issuer *auth.Issuer,
	policy lockout.Policy,
	recorder audit.Recorder,
	logger logging.Logger,
) *UserService {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &UserService{
		repomanager: m,
		hasher:      hasher,
		issuer:      issuer,
		policy:      policy,
		audit:       recorder,
		logger:      logger.With("module", "users"),
		now:         time.Now,
	}
}

type attempt struct {
	user     *models.User
	before   lockout.Counters
	after    lockout.Counters
	locked   bool
	verified bool
}

// Authenticate runs one login attempt. The lookup, the lockout transition and
// the counter write happen in one transaction holding the user's row lock.
//
// Unknown users and wrong passwords both yield common.ErrorUnauthorized. A
// locked account, or the failure that locks it, yields *LockoutError. Store
// failures yield common.ErrorInternal.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*auth.Token, error) {
	now := s.now()
	var a attempt

	err := s.repomanager.Transactor().WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetUserByLoginForUpdate(ctx, username)
		if err != nil {
			return err
		}
		a.user = user
		a.before = user.Counters()

		if s.policy.State(a.before, now) == lockout.Locked {
			a.locked = true
			return nil
		}

		if s.hasher.Verify(password, user.PasswordHash) {
			a.verified = true
			a.after = s.policy.OnSuccess(a.before)
			if a.before.FailedAttempts == 0 && a.before.LockoutEnd == nil {
				return nil
			}
		} else {
			a.after = s.policy.OnFailure(a.before, now)
		}

		return repo.UpdateLockout(ctx, user.ID, a.after.FailedAttempts, a.after.LockoutEnd)
	})

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Burn(password)
			s.logger.Info(ctx, "login rejected", "username", username, "reason", "unknown user")
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "login failed", "username", username, "error", err)
		return nil, common.ErrorInternal
	}

	if a.locked {
		remaining := lockout.Remaining(a.before.LockoutEnd, now)
		s.logger.Info(ctx, "login rejected", "username", username, "reason", "locked")
		return nil, &LockoutError{Remaining: remaining}
	}

	if !a.verified {
		s.logger.Info(ctx, "login rejected", "username", username, "reason", "bad password",
			"failed_attempts", a.after.FailedAttempts)
		s.record(ctx, audit.Event{Type: audit.EventLoginFailed, Username: username,
			Attempts: a.after.FailedAttempts, At: now})

		if s.policy.State(a.after, now) == lockout.Locked {
			s.logger.Warn(ctx, "account locked", "username", username, "until", *a.after.LockoutEnd)
			s.record(ctx, audit.Event{Type: audit.EventLockedOut, Username: username,
				Attempts: a.after.FailedAttempts, LockoutEnd: a.after.LockoutEnd, At: now})
			return nil, &LockoutError{Remaining: lockout.Remaining(a.after.LockoutEnd, now)}
		}
		return nil, common.ErrorUnauthorized
	}

	token, err := s.issuer.Issue(a.user.UserName, a.user.Role, now)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "username", username, "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "login succeeded", "username", username, "role", a.user.Role)
	return token, nil
}

// Register validates, sanitizes and stores a new account. Uniqueness is left
// to the store.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	for _, v := range []string{req.Username, req.Email, req.Password, req.Role} {
		if strings.TrimSpace(v) == "" {
			return nil, common.ErrorMissingField
		}
	}

	if err := passwords.CheckStrength(req.Password); err != nil {
		return nil, err
	}

	username := sanitize.String(req.Username)
	email := sanitize.String(req.Email)
	if username == "" || email == "" {
		return nil, common.ErrorMissingField
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "username", username, "error", err)
		return nil, common.ErrorInternal
	}

	user := &models.User{
		UserName:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         strings.TrimSpace(req.Role),
	}

	var created *models.User
	err = s.repomanager.Transactor().WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		created, err = s.repomanager.Users(tx).Create(ctx, user)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUsernameTaken),
			errors.Is(err, common.ErrorEmailTaken),
			errors.Is(err, common.ErrorMissingField),
			errors.Is(err, common.ErrorFieldTooLong):
			s.logger.Info(ctx, "registration rejected", "username", username, "reason", err.Error())
			return nil, err
		}
		s.logger.Error(ctx, "registration failed", "username", username, "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "username", created.UserName, "role", created.Role)
	s.record(ctx, audit.Event{Type: audit.EventRegistered, Username: created.UserName,
		Role: created.Role, At: s.now()})
	return created, nil
}

// ListByRole returns the accounts holding role, ordered by id.
func (s *UserService) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.repomanager.Conn()).ListByRole(ctx, role)
	if err != nil {
		s.logger.Error(ctx, "list by role failed", "role", role, "error", err)
		return nil, common.ErrorInternal
	}
	return users, nil
}

// record archives e; failures are logged and never change the outcome of the
// operation that produced the event.
func (s *UserService) record(ctx context.Context, e audit.Event) {
	if err := s.audit.Record(ctx, e); err != nil {
		s.logger.Warn(ctx, "audit record failed", "type", string(e.Type), "username", e.Username, "error", err)
	}
}
