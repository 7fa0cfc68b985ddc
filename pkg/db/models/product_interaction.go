package models

import "time"

// ProductInteraction records one user's like or dislike of a product.
// A nil DeletedAt marks the row active; a set DeletedAt queues it for cleanup.
type ProductInteraction struct {
	UserID    int64      `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	ProductID int64      `gorm:"column:product_id;primaryKey;autoIncrement:false"`
	IsLike    bool       `gorm:"column:is_like;not null"`
	DeletedAt *time.Time `gorm:"column:deleted_at;type:timestamptz"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductInteraction) TableName() string { return "product_interactions" }
