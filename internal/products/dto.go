package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductDTO is the read representation returned by every product endpoint.
type ProductDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description,omitempty"`
	UserID      int64           `json:"user_id"`
	Username    string          `json:"username"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductRecord is a product joined with its owner's username.
type ProductRecord struct {
	ID          int64           `gorm:"column:id"`
	Name        string          `gorm:"column:name"`
	Price       decimal.Decimal `gorm:"column:price"`
	Description *string         `gorm:"column:description"`
	UserID      int64           `gorm:"column:user_id"`
	Username    string          `gorm:"column:username"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (r ProductRecord) toDTO() ProductDTO {
	return ProductDTO{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		UserID:      r.UserID,
		Username:    r.Username,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func rowsToDTOs(rows []ProductRecord) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDTO())
	}
	return out
}
