package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/catalog-backend/pkg/auth"
	"github.com/angelmondragon/catalog-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/angelmondragon/catalog-backend/pkg/pagination"
)

const (
	minNameLength        = 3
	maxNameLength        = 255
	maxDescriptionLength = 1000
)

// Service exposes catalog product operations.
type Service interface {
	Create(ctx context.Context, actor auth.Actor, input ProductInput) (*ProductDTO, error)
	Get(ctx context.Context, id int64) (*ProductDTO, error)
	Update(ctx context.Context, actor auth.Actor, id int64, input ProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, actor auth.Actor, id int64) error
	List(ctx context.Context, params pagination.Params) (*pagination.Page[ProductDTO], error)
	SearchByName(ctx context.Context, name string) ([]ProductDTO, error)
}

// ProductInput holds the writable product fields.
type ProductInput struct {
	Name        string
	Price       decimal.Decimal
	Description *string
}

func (in ProductInput) normalize() (ProductInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if n := utf8.RuneCountInString(in.Name); n < minNameLength || n > maxNameLength {
		return in, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Name must be between %d and %d characters", minNameLength, maxNameLength))
	}
	if in.Price.IsNegative() {
		return in, pkgerrors.New(pkgerrors.CodeValidation, "Price must be non-negative")
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLength {
		return in, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Description must be at most %d characters", maxDescriptionLength))
	}
	in.Price = in.Price.Round(2)
	return in, nil
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindModelByID(ctx context.Context, id int64) (*models.Product, error)
	FindByID(ctx context.Context, id int64) (*ProductRecord, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) (int64, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, offset, limit int) ([]ProductRecord, error)
	FindByName(ctx context.Context, name string) ([]ProductRecord, error)
}

// ServiceParams bundles the dependencies of the product service. Repo serves
// reads; RepoFactory binds a repository to each write transaction.
type ServiceParams struct {
	TxRunner    txRunner
	Repo        productRepository
	RepoFactory func(tx *gorm.DB) productRepository
	Now         func() time.Time
}

type service struct {
	tx          txRunner
	repo        productRepository
	repoFactory func(tx *gorm.DB) productRepository
	now         func() time.Time
}

// NewService constructs a product service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	factory := params.RepoFactory
	if factory == nil {
		factory = func(tx *gorm.DB) productRepository { return NewRepository(tx) }
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		tx:          params.TxRunner,
		repo:        params.Repo,
		repoFactory: factory,
		now:         now,
	}, nil
}

func (s *service) Create(ctx context.Context, actor auth.Actor, input ProductInput) (*ProductDTO, error) {
	if !actor.Authenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	var dto *ProductDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoFactory(tx)
		product := &models.Product{
			Name:        input.Name,
			Price:       input.Price,
			Description: input.Description,
			UserID:      actor.UserID,
		}
		if err := repo.Create(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
		}
		record, err := repo.FindByID(ctx, product.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload product")
		}
		out := record.toDTO()
		dto = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) Get(ctx context.Context, id int64) (*ProductDTO, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, id)
	}
	dto := record.toDTO()
	return &dto, nil
}

func (s *service) Update(ctx context.Context, actor auth.Actor, id int64, input ProductInput) (*ProductDTO, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if !actor.Authenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}

	var dto *ProductDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoFactory(tx)
		product, err := repo.FindModelByID(ctx, id)
		if err != nil {
			return mapLookupError(err, id)
		}
		if !actor.CanModify(product.UserID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "You can only modify your own products")
		}

		product.Name = input.Name
		product.Price = input.Price
		product.Description = input.Description
		product.UpdatedAt = s.now().UTC()
		if err := repo.Update(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
		}

		record, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload product")
		}
		out := record.toDTO()
		dto = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	if !actor.Authenticated() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoFactory(tx)
		product, err := repo.FindModelByID(ctx, id)
		if err != nil {
			return mapLookupError(err, id)
		}
		if !actor.CanModify(product.UserID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "You can only delete your own products")
		}
		if _, err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
		}
		return nil
	})
}

// List returns one page of products. An empty catalog still has page 1.
func (s *service) List(ctx context.Context, params pagination.Params) (*pagination.Page[ProductDTO], error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
	}
	if err := params.CheckInRange(total); err != nil {
		return nil, err
	}

	records, err := s.repo.List(ctx, params.Offset(), params.Size)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	page := pagination.NewPage(rowsToDTOs(records), params, total)
	return &page, nil
}

func (s *service) SearchByName(ctx context.Context, name string) ([]ProductDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Name is required")
	}
	records, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search products")
	}
	return rowsToDTOs(records), nil
}

func validateID(id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Product id must be positive")
	}
	return nil
}

func mapLookupError(err error, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Product %d not found", id))
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
}
