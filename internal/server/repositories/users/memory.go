package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/safevault/internal/common"
	"github.com/dmitrijs2005/safevault/internal/dbx"
	"github.com/dmitrijs2005/safevault/internal/server/models"
)

// MemoryRepository keeps users in process memory. It is also a
// dbx.Transactor: units of work run one at a time, which gives the
// read-modify-write of lockout counters the same guarantee a row lock gives
// in Postgres.
type MemoryRepository struct {
	txMu sync.Mutex

	mu      sync.RWMutex
	nextID  int64
	byLogin map[string]*models.User
	now     func() time.Time
}

var _ dbx.Transactor = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byLogin: make(map[string]*models.User),
		now:     time.Now,
	}
}

// WithTx runs fn exclusively. The handle passed to fn is nil; memory
// repositories ignore it.
func (r *MemoryRepository) WithTx(ctx context.Context, fn dbx.TxFunc) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, nil)
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := checkFields(user); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byLogin[user.UserName]; ok {
		return nil, common.ErrorUsernameTaken
	}
	for _, u := range r.byLogin {
		if u.Email == user.Email {
			return nil, common.ErrorEmailTaken
		}
	}

	r.nextID++
	stored := *user
	stored.ID = r.nextID
	stored.FailedLoginAttempts = 0
	stored.LockoutEnd = nil
	stored.CreatedAt = r.now().UTC()
	r.byLogin[stored.UserName] = &stored

	return clone(&stored), nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byLogin[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

// GetUserByLoginForUpdate relies on WithTx for exclusivity.
func (r *MemoryRepository) GetUserByLoginForUpdate(ctx context.Context, username string) (*models.User, error) {
	return r.GetUserByLogin(ctx, username)
}

func (r *MemoryRepository) UpdateLockout(ctx context.Context, userID int64, failedAttempts int, lockoutEnd *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byLogin {
		if u.ID != userID {
			continue
		}
		u.FailedLoginAttempts = failedAttempts
		u.LockoutEnd = nil
		if lockoutEnd != nil {
			t := *lockoutEnd
			u.LockoutEnd = &t
		}
		return nil
	}
	return common.ErrorNotFound
}

func (r *MemoryRepository) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.User, 0)
	for _, u := range r.byLogin {
		if u.Role == role {
			result = append(result, clone(u))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func clone(u *models.User) *models.User {
	c := *u
	if u.LockoutEnd != nil {
		t := *u.LockoutEnd
		c.LockoutEnd = &t
	}
	return &c
}
