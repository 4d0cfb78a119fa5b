package controllers

import (
	"net/http"

	"github.com/danhewitt/motorline-backend/api/middleware"
	"github.com/danhewitt/motorline-backend/api/responses"
	"github.com/danhewitt/motorline-backend/api/validators"
	"github.com/danhewitt/motorline-backend/internal/favourites"
	"github.com/danhewitt/motorline-backend/pkg/logger"
)

type favouriteToggleRequest struct {
	ClassifiedID int64 `json:"classified_id" validate:"required,gt=0"`
}

type favouriteToggleResponse struct {
	IDs []int64 `json:"ids"`
}

// FavouriteToggle flips one classified in the visitor's favourites set and
// returns the updated set.
func FavouriteToggle(svc favourites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req favouriteToggleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids, err := svc.Toggle(r.Context(), middleware.SourceIDFromContext(r.Context()), req.ClassifiedID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, favouriteToggleResponse{IDs: ids})
	}
}

// FavouriteList returns one page of the visitor's favourites, restricted to
// listings that are still live.
func FavouriteList(svc favourites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListLive(r.Context(), middleware.SourceIDFromContext(r.Context()), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
