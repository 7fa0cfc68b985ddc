package models

import (
	"time"

	"github.com/angelmondragon/catalog-backend/pkg/enums"
)

// User is an account that owns products and interactions.
type User struct {
	ID           int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string     `gorm:"column:username;type:text;not null;uniqueIndex:users_username_key"`
	PasswordHash string     `gorm:"column:password_hash;type:text;not null"`
	Role         enums.Role `gorm:"column:role;type:text;not null"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
