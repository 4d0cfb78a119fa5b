package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/danhewitt/motorline-backend/api/responses"
	"github.com/danhewitt/motorline-backend/api/validators"
	"github.com/danhewitt/motorline-backend/internal/classifieds"
	"github.com/danhewitt/motorline-backend/internal/currency"
	"github.com/danhewitt/motorline-backend/pkg/enums"
	pkgerrors "github.com/danhewitt/motorline-backend/pkg/errors"
	"github.com/danhewitt/motorline-backend/pkg/logger"
	"github.com/danhewitt/motorline-backend/pkg/pagination"
)

// ClassifiedList serves the public browse endpoint with optional filters,
// cursor pagination, and display-currency conversion.
func ClassifiedList(svc classifieds.Service, converter *currency.Converter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := displayCurrency(r, converter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := classifieds.ListQuery{
			Filters: classifieds.ParseListFilters(r.URL.Query()),
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}

		result, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if target != "" {
			for i := range result.Classifieds {
				if err := convertSummaryPrice(&result.Classifieds[i], converter, target); err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			}
		}

		responses.WriteSuccess(w, result)
	}
}

// ClassifiedDetail serves the public detail page by slug. Each read bumps
// the listing's view counter.
func ClassifiedDetail(svc classifieds.Service, converter *currency.Converter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := displayCurrency(r, converter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if target != "" {
			converted, err := converter.Convert(detail.PriceMinor, enums.Currency(detail.Currency), target)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			detail.PriceMinor = converted
			detail.Currency = target.String()
		}

		responses.WriteSuccess(w, detail)
	}
}

// displayCurrency resolves the optional ?currency= parameter. Empty means
// "serve stored prices untouched".
func displayCurrency(r *http.Request, converter *currency.Converter) (enums.Currency, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("currency"))
	if raw == "" {
		return "", nil
	}
	code, err := enums.ParseCurrency(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid display currency")
	}
	if converter == nil || !converter.Supports(code) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported display currency")
	}
	return code, nil
}

func convertSummaryPrice(summary *classifieds.Summary, converter *currency.Converter, target enums.Currency) error {
	converted, err := converter.Convert(summary.PriceMinor, enums.Currency(summary.Currency), target)
	if err != nil {
		return err
	}
	summary.PriceMinor = converted
	summary.Currency = target.String()
	return nil
}
