package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"promo-bot/internal/model"
)

// UserRepository stores one activity record per Telegram user.
type UserRepository struct {
	db  *gorm.DB
	now func() time.Time

	schemaMu    sync.Mutex
	schemaReady bool
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

// ensureSchema creates the users table on first use. A failed attempt is retried on the next call.
func (r *UserRepository) ensureSchema(ctx context.Context) error {
	r.schemaMu.Lock()
	defer r.schemaMu.Unlock()
	if r.schemaReady {
		return nil
	}
	if err := Migrate(r.db.WithContext(ctx)); err != nil {
		return err
	}
	r.schemaReady = true
	return nil
}

// EnsureUser inserts a fresh record for userID unless one already exists.
// It reports whether a new row was written.
func (r *UserRepository) EnsureUser(ctx context.Context, userID int64) (bool, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return false, err
	}

	user := model.User{
		UserID:     userID,
		Messages:   0,
		LastActive: r.now(),
		VIPStatus:  0,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&user)
	if res.Error != nil {
		return false, fmt.Errorf("ensure user %d: %w", userID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *UserRepository) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}
	var user model.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Count returns the number of stored users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// CountVIP returns the number of users with the VIP flag set.
func (r *UserRepository) CountVIP(ctx context.Context) (int64, error) {
	if err := r.ensureSchema(ctx); err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("vip_status = ?", 1).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count vip users: %w", err)
	}
	return n, nil
}
