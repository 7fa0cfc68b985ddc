package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry owned by the user that created it.
type Product struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string          `gorm:"column:name;type:text;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Description *string         `gorm:"column:description;type:text"`
	UserID      int64           `gorm:"column:user_id;not null;index:product_user_id_idx"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName matches the COPY target used by the bulk loader.
func (Product) TableName() string { return "product" }
