package controllers

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/catalog-backend/api/middleware"
	"github.com/angelmondragon/catalog-backend/api/responses"
	"github.com/angelmondragon/catalog-backend/api/validators"
	productsvc "github.com/angelmondragon/catalog-backend/internal/products"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
	"github.com/angelmondragon/catalog-backend/pkg/pagination"
)

const maxNameParamLength = 255

type productRequest struct {
	Name        string           `json:"name" validate:"required,min=3,max=255"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0,lt=10000000000"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=1000"`
}

func (p productRequest) toInput() productsvc.ProductInput {
	return productsvc.ProductInput{
		Name:        p.Name,
		Price:       *p.Price,
		Description: p.Description,
	}
}

// CreateProduct stores a product owned by the caller.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			notWired(w, r, logg, "product")
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// GetProduct answers 202 Accepted on success.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			notWired(w, r, logg, "product")
			return
		}

		id, err := pathInt64(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, product)
	}
}

func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			notWired(w, r, logg, "product")
			return
		}

		id, err := pathInt64(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			notWired(w, r, logg, "product")
			return
		}

		id, err := pathInt64(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), middleware.ActorFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusOK, "Product deleted")
	}
}

// ListProducts pages through the catalog ordered by id.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			notWired(w, r, logg, "product")
			return
		}

		page, err := validators.ParseQueryInt(r, "page", pagination.DefaultPage, 1, math.MaxInt32)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		size, err := validators.ParseQueryInt(r, "page_size", pagination.DefaultSize, 1, math.MaxInt32)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), pagination.Params{Page: page, Size: size})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func ProductsByName(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			notWired(w, r, logg, "product")
			return
		}

		name := validators.SanitizeString(chi.URLParam(r, "name"), maxNameParamLength)
		if name == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "name is required"))
			return
		}

		items, err := svc.SearchByName(r.Context(), name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}
