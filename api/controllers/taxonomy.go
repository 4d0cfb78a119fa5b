package controllers

import (
	"net/http"

	"github.com/danhewitt/motorline-backend/api/responses"
	"github.com/danhewitt/motorline-backend/internal/taxonomy"
	"github.com/danhewitt/motorline-backend/pkg/logger"
)

// TaxonomyOptions serves the cached filter option snapshot. A nil snapshot
// (generation contention or failure) serializes as data: null so the
// frontend can fall back to its bundled copy.
func TaxonomyOptions(svc taxonomy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := svc.GetOrGenerate(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}
