package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/catalog-backend/api/responses"
	pkgerrors "github.com/angelmondragon/catalog-backend/pkg/errors"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
)

// notWired answers 500 for a handler built without its service.
func notWired(w http.ResponseWriter, r *http.Request, logg *logger.Logger, service string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeInternal, "%s service unavailable", service))
}

func pathInt64(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, key+" is required")
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, key+" must be numeric").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}
