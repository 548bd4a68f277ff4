package controllers

import (
	"net/http"

	"github.com/dkurilenko/freshmart-backend/api/responses"
	"github.com/dkurilenko/freshmart-backend/internal/accounts"
	pkgerrors "github.com/dkurilenko/freshmart-backend/pkg/errors"
	"github.com/dkurilenko/freshmart-backend/pkg/logger"
)

// AccountMe returns the caller's balance.
func AccountMe(svc accounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "account service unavailable"))
			return
		}

		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		account, err := svc.GetByUserID(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, account)
	}
}
