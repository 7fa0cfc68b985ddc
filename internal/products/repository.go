package product

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/catalog-backend/internal/repo"
	"github.com/angelmondragon/catalog-backend/pkg/db/models"
)

const productWithOwnerSelect = "product.id, product.name, product.price, product.description, product.user_id, users.username, product.created_at, product.updated_at"

// Repository persists catalog products.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) withOwner(ctx context.Context) *gorm.DB {
	return r.DB(ctx).
		Table("product").
		Select(productWithOwnerSelect).
		Joins("JOIN users ON users.id = product.user_id")
}

// Create inserts the product and fills its generated columns.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Create(product).Error
}

// FindModelByID loads the bare product row.
func (r *Repository) FindModelByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByID loads the product joined with its owner. Missing rows yield
// gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id int64) (*ProductRecord, error) {
	var rows []ProductRecord
	if err := r.withOwner(ctx).Where("product.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// Update writes the mutable columns of product.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).
		Model(product).
		Select("name", "price", "description", "updated_at").
		Updates(product).Error
}

// Delete removes the product; interactions cascade.
func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

// Count returns the total number of products.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB(ctx).Model(&models.Product{}).Count(&total).Error
	return total, err
}

// List returns one page of products in id order.
func (r *Repository) List(ctx context.Context, offset, limit int) ([]ProductRecord, error) {
	var rows []ProductRecord
	err := r.withOwner(ctx).
		Order("product.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// FindByName matches names case-insensitively.
func (r *Repository) FindByName(ctx context.Context, name string) ([]ProductRecord, error) {
	var rows []ProductRecord
	err := r.withOwner(ctx).
		Where("lower(product.name) = lower(?)", name).
		Order("product.id ASC").
		Scan(&rows).Error
	return rows, err
}
