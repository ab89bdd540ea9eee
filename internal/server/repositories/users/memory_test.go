package users

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/safevault/internal/common"
	"github.com/dmitrijs2005/safevault/internal/dbx"
	"github.com/stretchr/testify/require"
)

func TestMemory_CreateAndGet(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	got, err := r.Create(ctx, alice())
	require.NoError(t, err)
	require.Equal(t, int64(1), got.ID)
	require.False(t, got.CreatedAt.IsZero())

	u, err := r.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", u.Email)
	require.Zero(t, u.FailedLoginAttempts)
	require.Nil(t, u.LockoutEnd)
}

func TestMemory_CreateRejectsDuplicates(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	_, err := r.Create(ctx, alice())
	require.NoError(t, err)

	sameName := alice()
	sameName.Email = "other@example.com"
	_, err = r.Create(ctx, sameName)
	require.ErrorIs(t, err, common.ErrorUsernameTaken)

	sameEmail := alice()
	sameEmail.UserName = "alice2"
	_, err = r.Create(ctx, sameEmail)
	require.ErrorIs(t, err, common.ErrorEmailTaken)

	all, err := r.ListByRole(ctx, "User")
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestMemory_CreateMissingField(t *testing.T) {
	r := NewMemoryRepository()
	u := alice()
	u.PasswordHash = ""
	_, err := r.Create(context.Background(), u)
	require.ErrorIs(t, err, common.ErrorMissingField)
}

func TestMemory_CreateTooLongField(t *testing.T) {
	r := NewMemoryRepository()
	u := alice()
	u.UserName = strings.Repeat("a", MaxUsernameLength+1)
	_, err := r.Create(context.Background(), u)
	require.ErrorIs(t, err, common.ErrorFieldTooLong)

	_, err = r.GetUserByLogin(context.Background(), u.UserName)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemory_GetUnknown(t *testing.T) {
	r := NewMemoryRepository()
	_, err := r.GetUserByLoginForUpdate(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemory_ReturnedUsersAreCopies(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	_, err := r.Create(ctx, alice())
	require.NoError(t, err)

	u, err := r.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	u.FailedLoginAttempts = 99

	again, err := r.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	require.Zero(t, again.FailedLoginAttempts)
}

func TestMemory_UpdateLockout(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	u, err := r.Create(ctx, alice())
	require.NoError(t, err)

	end := time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC)
	require.NoError(t, r.UpdateLockout(ctx, u.ID, 5, &end))

	got, err := r.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, 5, got.FailedLoginAttempts)
	require.NotNil(t, got.LockoutEnd)
	require.True(t, got.LockoutEnd.Equal(end))

	require.NoError(t, r.UpdateLockout(ctx, u.ID, 0, nil))
	got, err = r.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	require.Zero(t, got.FailedLoginAttempts)
	require.Nil(t, got.LockoutEnd)

	require.ErrorIs(t, r.UpdateLockout(ctx, 404, 1, nil), common.ErrorNotFound)
}

func TestMemory_ListByRoleOrdered(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	for _, n := range []string{"c", "a", "b"} {
		u := alice()
		u.UserName = n
		u.Email = n + "@example.com"
		u.Role = "Admin"
		_, err := r.Create(ctx, u)
		require.NoError(t, err)
	}

	got, err := r.ListByRole(ctx, "Admin")
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []string{"c", "a", "b"}, []string{got[0].UserName, got[1].UserName, got[2].UserName})

	none, err := r.ListByRole(ctx, "User")
	require.NoError(t, err)
	require.NotNil(t, none)
	require.Empty(t, none)
}

func TestMemory_WithTxSerializesReadModifyWrite(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	u, err := r.Create(ctx, alice())
	require.NoError(t, err)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.WithTx(ctx, func(ctx context.Context, _ dbx.DBTX) error {
				cur, err := r.GetUserByLoginForUpdate(ctx, "alice")
				if err != nil {
					return err
				}
				return r.UpdateLockout(ctx, u.ID, cur.FailedLoginAttempts+1, nil)
			})
		}()
	}
	wg.Wait()

	got, err := r.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, workers, got.FailedLoginAttempts)
}

func TestMemory_WithTxPropagatesErrorsAndCancellation(t *testing.T) {
	r := NewMemoryRepository()
	boom := errors.New("boom")

	err := r.WithTx(context.Background(), func(context.Context, dbx.DBTX) error { return boom })
	require.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err = r.WithTx(ctx, func(context.Context, dbx.DBTX) error { called = true; return nil })
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}
