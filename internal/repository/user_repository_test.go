package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"promo-bot/internal/model"
)

func newTestRepo(t *testing.T) (*UserRepository, *gorm.DB) {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "data", "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewUserRepository(db), db
}

func TestUserRepository_EnsureUserCreatesRecord(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return created }

	inserted, err := repo.EnsureUser(ctx, 1001)
	require.NoError(t, err)
	assert.True(t, inserted)

	user, err := repo.FindByID(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), user.UserID)
	assert.Equal(t, 0, user.Messages)
	assert.Equal(t, 0, user.VIPStatus)
	assert.False(t, user.IsVIP())
	assert.True(t, created.Equal(user.LastActive))
}

func TestUserRepository_EnsureUserIsIdempotent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	first := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return first }

	_, err := repo.EnsureUser(ctx, 7)
	require.NoError(t, err)

	repo.now = func() time.Time { return first.Add(time.Hour) }
	inserted, err := repo.EnsureUser(ctx, 7)
	require.NoError(t, err)
	assert.False(t, inserted)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	user, err := repo.FindByID(ctx, 7)
	require.NoError(t, err)
	assert.True(t, first.Equal(user.LastActive), "existing record must not be touched")
}

func TestUserRepository_EnsureUserConcurrent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.EnsureUser(ctx, 55)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUserRepository_FindByIDMissing(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), 404)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestUserRepository_Counts(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []int64{1, 2, 3} {
		_, err := repo.EnsureUser(ctx, id)
		require.NoError(t, err)
	}
	require.NoError(t, db.Model(&model.User{}).Where("user_id = ?", 2).Update("vip_status", 1).Error)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	vip, err := repo.CountVIP(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), vip)
}

func TestUserRepository_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.db")
	ctx := context.Background()

	db, err := NewDB(path)
	require.NoError(t, err)
	_, err = NewUserRepository(db).EnsureUser(ctx, 9)
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	require.NoError(t, sqlDB.Close())

	db, err = NewDB(path)
	require.NoError(t, err)
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()
	repo := NewUserRepository(db)

	inserted, err := repo.EnsureUser(ctx, 9)
	require.NoError(t, err)
	assert.False(t, inserted)
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestEnsureDirForSQLite(t *testing.T) {
	assert.NoError(t, ensureDirForSQLite(":memory:"))
	assert.NoError(t, ensureDirForSQLite("file::memory:?cache=shared"))
	assert.NoError(t, ensureDirForSQLite("users.db"))

	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, ensureDirForSQLite("file:"+filepath.Join(dir, "users.db")+"?_busy_timeout=5000"))
	assert.DirExists(t, dir)
}
