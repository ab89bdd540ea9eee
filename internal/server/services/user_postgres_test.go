package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/safevault/internal/common"
	"github.com/dmitrijs2005/safevault/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "username", "email", "password_hash", "role", "failed_login_attempts", "lockout_end", "created_at"}

func TestAuthenticate_PostgresLocksRowInsideTx(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	s, c, _ := newTestService(t, repomanager.NewPostgresRepositoryManager(db))
	hash, err := s.hasher.Hash(goodPassword)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM users\s+WHERE username = \$1 FOR UPDATE`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), "alice", "alice@example.com", hash, "User", 4, nil, c.now()))
	mock.ExpectExec(`UPDATE users SET failed_login_attempts`).
		WithArgs(int64(1), 5, c.now().Add(15*time.Minute)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err = s.Authenticate(context.Background(), "alice", "wrong")
	var le *LockoutError
	require.ErrorAs(t, err, &le)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticate_PostgresRollsBackOnUpdateError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	s, c, _ := newTestService(t, repomanager.NewPostgresRepositoryManager(db))
	hash, err := s.hasher.Hash(goodPassword)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), "alice", "alice@example.com", hash, "User", 0, nil, c.now()))
	mock.ExpectExec(`UPDATE users`).WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	_, err = s.Authenticate(context.Background(), "alice", "wrong")
	require.Equal(t, common.ErrorInternal, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticate_PostgresUnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	s, _, _ := newTestService(t, repomanager.NewPostgresRepositoryManager(db))

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectRollback()

	_, err = s.Authenticate(context.Background(), "ghost", goodPassword)
	require.Equal(t, common.ErrorUnauthorized, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
