package controllers

import (
	"net/http"

	"github.com/angelmondragon/catalog-backend/api/middleware"
	"github.com/angelmondragon/catalog-backend/api/responses"
	"github.com/angelmondragon/catalog-backend/api/validators"
	"github.com/angelmondragon/catalog-backend/internal/bulkload"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
)

type bulkLoadRequest struct {
	FileAddress string `json:"fileAddress" validate:"required,max=2048"`
}

type bulkLoadResponse struct {
	RowsLoaded int64 `json:"rows_loaded"`
}

func BulkLoadProducts(svc bulkload.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			notWired(w, r, logg, "bulk load")
			return
		}

		var body bulkLoadRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.Load(r.Context(), middleware.ActorFromContext(r.Context()), body.FileAddress)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, bulkLoadResponse{RowsLoaded: rows})
	}
}
