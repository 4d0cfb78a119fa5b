package controllers

import (
	"net/http"
	"strings"

	"github.com/danhewitt/motorline-backend/api/responses"
	"github.com/danhewitt/motorline-backend/api/validators"
	"github.com/danhewitt/motorline-backend/internal/customers"
	"github.com/danhewitt/motorline-backend/pkg/enums"
	pkgerrors "github.com/danhewitt/motorline-backend/pkg/errors"
	"github.com/danhewitt/motorline-backend/pkg/logger"
	"github.com/danhewitt/motorline-backend/pkg/pagination"
)

// AdminCustomerList serves the panel lead browse view.
func AdminCustomerList(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := customers.ListQuery{
			Search: strings.TrimSpace(r.URL.Query().Get("q")),
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("kind")); raw != "" {
			kind, err := enums.ParseCustomerKind(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind filter"))
				return
			}
			query.Kind = &kind
		}

		result, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminCustomerSavedCars returns the lead's mirrored favourites as listing
// cards.
func AdminCustomerSavedCars(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SavedCars(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
