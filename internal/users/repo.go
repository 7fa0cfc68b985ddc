package users

import (
	"context"

	"github.com/angelmondragon/catalog-backend/internal/repo"
	"github.com/angelmondragon/catalog-backend/pkg/db/models"
	"github.com/angelmondragon/catalog-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByUsername retrieves the user matching the provided username exactly.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindFirstByRole returns the lowest-id user holding role.
func (r *Repository) FindFirstByRole(ctx context.Context, role enums.Role) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("role = ?", role).Order("id ASC").First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePasswordHash replaces the stored hash, used when hashing parameters are raised.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}
