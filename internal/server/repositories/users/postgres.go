package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/safevault/internal/common"
	"github.com/dmitrijs2005/safevault/internal/dbx"
	"github.com/dmitrijs2005/safevault/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names from the create_users migration.
const (
	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"

	uniqueViolation           = "23505"
	stringDataRightTruncation = "22001"
)

const selectUser = `SELECT id, username, email, password_hash, role,
		failed_login_attempts, lockout_end, created_at
	FROM users`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := checkFields(user); err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO users (username, email, password_hash, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.UserName, user.Email, user.PasswordHash, user.Role).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch {
			case pgErr.Code == uniqueViolation && pgErr.ConstraintName == usernameConstraint:
				return nil, common.ErrorUsernameTaken
			case pgErr.Code == uniqueViolation && pgErr.ConstraintName == emailConstraint:
				return nil, common.ErrorEmailTaken
			case pgErr.Code == stringDataRightTruncation:
				return nil, fmt.Errorf("%w: %s", common.ErrorFieldTooLong, pgErr.Message)
			}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.FailedLoginAttempts = 0
	user.LockoutEnd = nil
	return user, nil
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, selectUser+` WHERE username = $1`, username)
}

func (r *PostgresRepository) GetUserByLoginForUpdate(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, selectUser+` WHERE username = $1 FOR UPDATE`, username)
}

func (r *PostgresRepository) getUser(ctx context.Context, query, username string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) UpdateLockout(ctx context.Context, userID int64, failedAttempts int, lockoutEnd *time.Time) error {
	query :=
		`UPDATE users SET failed_login_attempts = $2, lockout_end = $3
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, userID, failedAttempts, lockoutEnd)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+` WHERE role = $1 ORDER BY id`, role)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*models.User, error) {
	u := &models.User{}
	var lockoutEnd sql.NullTime
	err := s.Scan(&u.ID, &u.UserName, &u.Email, &u.PasswordHash, &u.Role,
		&u.FailedLoginAttempts, &lockoutEnd, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if lockoutEnd.Valid {
		t := lockoutEnd.Time
		u.LockoutEnd = &t
	}
	return u, nil
}
