package controllers

import (
	"net/http"

	"github.com/angelmondragon/catalog-backend/api/middleware"
	"github.com/angelmondragon/catalog-backend/api/responses"
	"github.com/angelmondragon/catalog-backend/api/validators"
	"github.com/angelmondragon/catalog-backend/internal/auth"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
)

// AuthLogin exchanges credentials for a bearer token.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			notWired(w, r, logg, "auth")
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AuthRegister creates a USER account. Callers that already carry credentials
// are turned away by the service.
func AuthRegister(reg auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil {
			notWired(w, r, logg, "register")
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := reg.Register(r.Context(), middleware.ActorFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}
