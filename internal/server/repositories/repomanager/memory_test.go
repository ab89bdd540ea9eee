package repomanager

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/safevault/internal/dbx"
	"github.com/dmitrijs2005/safevault/internal/server/models"
	"github.com/stretchr/testify/require"
)

func TestMemoryManager_SharesOneStore(t *testing.T) {
	m := NewMemoryRepositoryManager()
	var _ RepositoryManager = m
	ctx := context.Background()

	require.NoError(t, m.RunMigrations(ctx))
	require.Nil(t, m.Conn())

	err := m.Transactor().WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := m.Users(tx).Create(ctx, &models.User{
			UserName: "alice", Email: "alice@example.com", PasswordHash: "h", Role: "User",
		})
		return err
	})
	require.NoError(t, err)

	u, err := m.Users(m.Conn()).GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", u.Email)
}
