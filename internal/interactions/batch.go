package interactions

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
)

type batchRepository interface {
	FetchKeysToDelete(ctx context.Context, limit int) ([]InteractionKey, error)
	DeleteByKeys(ctx context.Context, keys []InteractionKey) (int64, error)
}

// BatchExecutorParams configure a BatchExecutor.
type BatchExecutorParams struct {
	// TxRunner must open transactions on the root connection, never on a
	// caller's transaction, so each batch commits on its own.
	TxRunner    txRunner
	RepoFactory func(tx *gorm.DB) batchRepository
}

// BatchExecutor hard-deletes one bounded batch of soft-deleted interactions.
type BatchExecutor struct {
	tx          txRunner
	repoFactory func(tx *gorm.DB) batchRepository
}

func NewBatchExecutor(params BatchExecutorParams) (*BatchExecutor, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	factory := params.RepoFactory
	if factory == nil {
		factory = func(tx *gorm.DB) batchRepository { return NewRepository(tx) }
	}
	return &BatchExecutor{tx: params.TxRunner, repoFactory: factory}, nil
}

// PerformManagedBatch deletes at most batchSize soft-deleted rows in its own
// transaction and returns how many were removed. The work is committed when it
// returns without error.
func (b *BatchExecutor) PerformManagedBatch(ctx context.Context, batchSize int) (int64, error) {
	if batchSize <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "batch size must be positive")
	}

	var deleted int64
	err := b.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := b.repoFactory(tx)

		keys, err := repo.FetchKeysToDelete(ctx, batchSize)
		if err != nil {
			return fmt.Errorf("select keys: %w", err)
		}
		if len(keys) == 0 {
			return nil
		}

		n, err := repo.DeleteByKeys(ctx, keys)
		if err != nil {
			return fmt.Errorf("delete %d keys: %w", len(keys), err)
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
