package controllers

import (
	"net/http"

	"github.com/angelmondragon/catalog-backend/api/middleware"
	"github.com/angelmondragon/catalog-backend/api/responses"
	"github.com/angelmondragon/catalog-backend/internal/interactions"
	"github.com/angelmondragon/catalog-backend/pkg/enums"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
)

// LikeProduct toggles the caller's like and returns the product's active like count.
func LikeProduct(svc interactions.Service, logg *logger.Logger) http.HandlerFunc {
	return toggleInteraction(svc, enums.InteractionLike, logg)
}

// DislikeProduct toggles the caller's dislike and returns the active dislike count.
func DislikeProduct(svc interactions.Service, logg *logger.Logger) http.HandlerFunc {
	return toggleInteraction(svc, enums.InteractionDislike, logg)
}

func toggleInteraction(svc interactions.Service, dir enums.InteractionType, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			notWired(w, r, logg, "interaction")
			return
		}

		id, err := pathInt64(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		count, err := svc.Toggle(r.Context(), id, middleware.ActorFromContext(r.Context()), dir)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, count)
	}
}
