package interactions

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/catalog-backend/pkg/auth"
	"github.com/angelmondragon/catalog-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
)

// Service applies like/dislike toggles for authenticated callers.
type Service interface {
	Toggle(ctx context.Context, productID int64, actor auth.Actor, dir enums.InteractionType) (int64, error)
	Like(ctx context.Context, productID int64, actor auth.Actor) (int64, error)
	Dislike(ctx context.Context, productID int64, actor auth.Actor) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type toggleRepository interface {
	ProductExists(ctx context.Context, productID int64) (bool, error)
	GetState(ctx context.Context, userID, productID int64) (State, error)
	UpsertActive(ctx context.Context, userID, productID int64, dir enums.InteractionType, now time.Time) error
	SoftDelete(ctx context.Context, userID, productID int64, now time.Time) (int64, error)
	CountActive(ctx context.Context, productID int64, dir enums.InteractionType) (int64, error)
}

// ServiceParams bundles the dependencies of the toggle service.
type ServiceParams struct {
	TxRunner    txRunner
	RepoFactory func(tx *gorm.DB) toggleRepository
	Now         func() time.Time
}

type service struct {
	tx          txRunner
	repoFactory func(tx *gorm.DB) toggleRepository
	now         func() time.Time
}

// NewService builds the toggle service.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	factory := params.RepoFactory
	if factory == nil {
		factory = func(tx *gorm.DB) toggleRepository { return NewRepository(tx) }
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{tx: params.TxRunner, repoFactory: factory, now: now}, nil
}

func (s *service) Like(ctx context.Context, productID int64, actor auth.Actor) (int64, error) {
	return s.Toggle(ctx, productID, actor, enums.InteractionLike)
}

func (s *service) Dislike(ctx context.Context, productID int64, actor auth.Actor) (int64, error) {
	return s.Toggle(ctx, productID, actor, enums.InteractionDislike)
}

// Toggle sets, flips, or undoes the caller's interaction with the product and
// returns the recomputed active count for dir.
func (s *service) Toggle(ctx context.Context, productID int64, actor auth.Actor, dir enums.InteractionType) (int64, error) {
	if !actor.Authenticated() {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if productID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "Product id must be positive")
	}
	if !dir.IsValid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid interaction type")
	}

	var count int64
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoFactory(tx)

		exists, err := repo.ProductExists(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Product %d not found", productID))
		}

		current, err := repo.GetState(ctx, actor.UserID, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load interaction")
		}

		now := s.now().UTC()
		transition, _ := current.Next(dir)
		if transition == TransitionDeactivate {
			if _, err := repo.SoftDelete(ctx, actor.UserID, productID, now); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "soft delete interaction")
			}
		} else if err := repo.UpsertActive(ctx, actor.UserID, productID, dir, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upsert interaction")
		}

		count, err = repo.CountActive(ctx, productID, dir)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count interactions")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
