package controllers

import (
	"net/http"

	"github.com/jcampos-dev/storefront-backend/api/responses"
	"github.com/jcampos-dev/storefront-backend/api/validators"
	authsvc "github.com/jcampos-dev/storefront-backend/internal/auth"
	pkgerrors "github.com/jcampos-dev/storefront-backend/pkg/errors"
	"github.com/jcampos-dev/storefront-backend/pkg/logger"
)

const accessTokenHeader = "X-Storefront-Token"

// AuthLogin exchanges credentials for an access/refresh token pair.
func AuthLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body authsvc.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(accessTokenHeader, result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}
