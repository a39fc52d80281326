package model

import "time"

// User is the persisted activity record of a single bot user.
type User struct {
	UserID     int64     `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	Messages   int       `gorm:"column:messages;not null;default:0"`
	LastActive time.Time `gorm:"column:last_active"`
	VIPStatus  int       `gorm:"column:vip_status;not null;default:0"`
}

// TableName pins the table name used by earlier deployments.
func (User) TableName() string {
	return "users"
}

// IsVIP reports whether the VIP flag is set.
func (u User) IsVIP() bool {
	return u.VIPStatus == 1
}
