package interactions

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/catalog-backend/internal/repo"
	"github.com/angelmondragon/catalog-backend/pkg/db/models"
	"github.com/angelmondragon/catalog-backend/pkg/enums"
)

// InteractionKey names one interaction row queued for hard deletion.
type InteractionKey struct {
	UserID    int64 `gorm:"column:user_id"`
	ProductID int64 `gorm:"column:product_id"`
}

const upsertActiveSQL = `INSERT INTO product_interactions (user_id, product_id, is_like, deleted_at, created_at, updated_at)
VALUES (?, ?, ?, NULL, ?, ?)
ON CONFLICT (user_id, product_id) DO UPDATE
SET is_like = excluded.is_like, deleted_at = NULL, updated_at = excluded.updated_at`

// Repository persists product interactions.
type Repository struct {
	repo.Base
}

// NewRepository constructs an interactions repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ProductExists reports whether the product row is present.
func (r *Repository) ProductExists(ctx context.Context, productID int64) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetState loads the lifecycle state of the (user, product) interaction.
func (r *Repository) GetState(ctx context.Context, userID, productID int64) (State, error) {
	var row models.ProductInteraction
	err := r.DB(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Absent(), nil
		}
		return State{}, err
	}
	if row.DeletedAt != nil {
		return SoftDeleted(), nil
	}
	return Active(enums.InteractionFromIsLike(row.IsLike)), nil
}

// UpsertActive writes an active row in the given direction, creating it,
// flipping it, or reactivating a soft-deleted one in a single statement.
func (r *Repository) UpsertActive(ctx context.Context, userID, productID int64, dir enums.InteractionType, now time.Time) error {
	return r.DB(ctx).Exec(upsertActiveSQL, userID, productID, dir.IsLike(), now, now).Error
}

// SoftDelete marks the active row deleted. Already soft-deleted rows are untouched.
func (r *Repository) SoftDelete(ctx context.Context, userID, productID int64, now time.Time) (int64, error) {
	res := r.DB(ctx).
		Model(&models.ProductInteraction{}).
		Where("user_id = ? AND product_id = ? AND deleted_at IS NULL", userID, productID).
		UpdateColumns(map[string]any{"deleted_at": now, "updated_at": now})
	return res.RowsAffected, res.Error
}

// CountActive counts active interactions on a product in one direction.
func (r *Repository) CountActive(ctx context.Context, productID int64, dir enums.InteractionType) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.ProductInteraction{}).
		Where("product_id = ? AND is_like = ? AND deleted_at IS NULL", productID, dir.IsLike()).
		Count(&count).Error
	return count, err
}

// CountSoftDeleted counts rows awaiting cleanup.
func (r *Repository) CountSoftDeleted(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.ProductInteraction{}).
		Where("deleted_at IS NOT NULL").
		Count(&count).Error
	return count, err
}

// FetchKeysToDelete selects up to limit soft-deleted keys, oldest first.
// On Postgres the rows are locked and rows held by other cleaners are skipped.
func (r *Repository) FetchKeysToDelete(ctx context.Context, limit int) ([]InteractionKey, error) {
	q := r.DB(ctx).
		Model(&models.ProductInteraction{}).
		Select("user_id", "product_id").
		Where("deleted_at IS NOT NULL").
		Order("deleted_at ASC").
		Order("user_id ASC").
		Order("product_id ASC").
		Limit(limit)
	if r.SupportsRowLocks() {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate, Options: clause.LockingOptionsSkipLocked})
	}

	var keys []InteractionKey
	if err := q.Scan(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// DeleteByKeys hard-deletes the named rows while they are still soft-deleted,
// so a row reactivated since selection survives.
func (r *Repository) DeleteByKeys(ctx context.Context, keys []InteractionKey) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	match := r.DB(ctx).Where("user_id = ? AND product_id = ?", keys[0].UserID, keys[0].ProductID)
	for _, key := range keys[1:] {
		match = match.Or("user_id = ? AND product_id = ?", key.UserID, key.ProductID)
	}

	res := r.DB(ctx).
		Where("deleted_at IS NOT NULL").
		Where(match).
		Delete(&models.ProductInteraction{})
	return res.RowsAffected, res.Error
}
